package briefing

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
)

// Filename returns the output name for a briefing generated at now.
func Filename(feature domain.Feature, now time.Time) string {
	timestamp := now.Format("2006-01-02_150405")
	switch feature {
	case domain.FeatureNews:
		return fmt.Sprintf("briefing_news_%s.md", timestamp)
	case domain.FeatureQuiz:
		return fmt.Sprintf("briefing_quiz_%s.md", timestamp)
	}
	return fmt.Sprintf("briefing_%s.md", timestamp)
}

// Write stores a briefing in the output folder, creating it if needed,
// and returns the absolute path of the written file. Briefings are
// write-once, so no backup is kept.
func Write(outputFolder string, feature domain.Feature, content string, now time.Time) (string, error) {
	if err := os.MkdirAll(outputFolder, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output folder %s: %w", outputFolder, err)
	}

	path := filepath.Join(outputFolder, Filename(feature, now))
	if err := AtomicWrite(path, content, false); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	slog.Info("briefing written", "path", abs)
	return abs, nil
}

// AppendResultSection appends a quiz result section to an existing
// briefing file.
func AppendResultSection(briefingFile, section string) error {
	existing, err := os.ReadFile(briefingFile)
	if err != nil {
		return fmt.Errorf("failed to read briefing %s: %w", briefingFile, err)
	}

	updated := fmt.Sprintf("%s\n\n%s\n",
		strings.TrimRight(string(existing), "\n"),
		strings.TrimSpace(section),
	)
	return AtomicWrite(briefingFile, updated, false)
}

// AtomicWrite writes content via write-then-rename so readers never see
// a partial file. With backup set, the previous content is kept in a
// .bak sibling first.
func AtomicWrite(path, content string, backup bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}

	if backup {
		if existing, err := os.ReadFile(path); err == nil {
			if err := os.WriteFile(path+".bak", existing, 0o644); err != nil {
				slog.Warn("failed to create backup", "path", path+".bak", "error", err)
			}
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// SafeRead reads path, falling back to its .bak sibling when the main
// file is missing or unreadable. The returned bool reports whether the
// backup was used.
func SafeRead(path string) (string, bool, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		return string(raw), false, nil
	}

	bak, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil {
		slog.Warn("restored from backup", "path", path+".bak")
		return string(bak), true, nil
	}
	return "", false, fmt.Errorf("failed to read %s: %w", path, err)
}
