// Package gitsource mirrors git-hosted note vaults to a local cache so
// the scanner can treat them like any other folder.
package gitsource

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsRemote reports whether a configured input folder is a git URL
// rather than a local path.
func IsRemote(path string) bool {
	return strings.HasSuffix(path, ".git") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

// LocalPath maps a repository URL to its cache location under baseDir,
// namespaced by host so two vaults named "notes" on different hosts
// cannot collide. Handles both https and scp-style git@host:path URLs.
func LocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		repoPath := strings.TrimSuffix(parsed.Path, ".git")
		return filepath.Join(baseDir, parsed.Host, repoPath), nil
	}

	// git@host:owner/repo.git
	if at := strings.Index(repoURL, "@"); at >= 0 {
		if colon := strings.Index(repoURL[at:], ":"); colon >= 0 {
			host := repoURL[at+1 : at+colon]
			repoPath := strings.TrimSuffix(repoURL[at+colon+1:], ".git")
			if host != "" && repoPath != "" {
				return filepath.Join(baseDir, host, repoPath), nil
			}
		}
	}

	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}

// Mirror clones the repository to localPath, or pulls the latest
// changes if a clone already exists there.
func Mirror(repoURL, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		slog.Info("cloning vault", "url", repoURL, "path", localPath)
		if _, err := git.PlainClone(localPath, false, &git.CloneOptions{URL: repoURL}); err != nil {
			return fmt.Errorf("failed to clone vault %s: %w", repoURL, err)
		}
		return nil

	case err == nil:
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open vault clone at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree at %s: %w", localPath, err)
		}
		slog.Info("pulling vault", "path", localPath)
		if err := worktree.Pull(&git.PullOptions{RemoteName: "origin"}); err != nil && err != git.NoErrAlreadyUpToDate {
			return fmt.Errorf("failed to pull vault at %s: %w", localPath, err)
		}
		return nil

	default:
		return fmt.Errorf("error checking vault path %s: %w", localPath, err)
	}
}
