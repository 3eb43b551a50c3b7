// Package scanner walks note vaults and turns markdown files into
// domain.Note records: YAML frontmatter metadata, checkbox counts, and
// file attributes.
package scanner

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/conorfennell/notebrief/internal/domain"
)

var (
	frontmatterPattern = regexp.MustCompile(`(?s)\A---\s*\n(.*?\n)---\s*\n`)
	uncheckedPattern   = regexp.MustCompile(`- \[ \]`)
	checkedPattern     = regexp.MustCompile(`(?i)- \[x\]`)
)

// DefaultExtensions is the file filter applied when none is configured.
var DefaultExtensions = []string{".md"}

// OutputFolderPrefix marks the briefing output folder, which the
// scanner must skip to avoid feeding generated briefings back in.
const OutputFolderPrefix = "_briefings"

// ExtractFrontmatter splits raw file content into its YAML frontmatter
// map and the remaining body. Content without a frontmatter block, or
// with one that fails to parse, yields an empty map and the full text.
func ExtractFrontmatter(raw string) (map[string]any, string) {
	match := frontmatterPattern.FindStringSubmatchIndex(raw)
	if match == nil {
		return map[string]any{}, raw
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(raw[match[2]:match[3]]), &fm); err != nil || fm == nil {
		slog.Warn("failed to parse frontmatter", "error", err)
		return map[string]any{}, raw
	}
	return fm, raw[match[1]:]
}

// CountCheckboxes counts unchecked and checked markdown checklist
// markers in a note body.
func CountCheckboxes(content string) (unchecked, checked int) {
	return len(uncheckedPattern.FindAllString(content, -1)),
		len(checkedPattern.FindAllString(content, -1))
}

// ScanFolder walks folder recursively and reads every file whose
// extension matches. Relative paths are computed against base, or
// against folder itself if base is empty. Unreadable files are skipped
// with a warning; a missing folder yields an empty result, not an error.
func ScanFolder(folder string, extensions []string, base string) []domain.Note {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}

	absFolder, err := filepath.Abs(folder)
	if err != nil {
		slog.Warn("cannot resolve folder", "folder", folder, "error", err)
		return nil
	}
	absBase := absFolder
	if base != "" {
		if absBase, err = filepath.Abs(base); err != nil {
			absBase = absFolder
		}
	}

	info, err := os.Stat(absFolder)
	if err != nil || !info.IsDir() {
		slog.Warn("not a readable directory", "folder", absFolder)
		return nil
	}

	var notes []domain.Note
	walkErr := filepath.WalkDir(absFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("walk error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), OutputFolderPrefix) {
				return filepath.SkipDir
			}
			return nil
		}
		if !extSet[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		if note, ok := readNote(path, absBase); ok {
			notes = append(notes, note)
		}
		return nil
	})
	if walkErr != nil {
		slog.Warn("folder scan aborted", "folder", absFolder, "error", walkErr)
	}

	slog.Info("folder scan complete", "folder", absFolder, "notes", len(notes))
	return notes
}

// ScanFolders scans several roots and merges the results, dropping
// duplicates by absolute path.
func ScanFolders(folders []string, extensions []string) []domain.Note {
	var all []domain.Note
	seen := make(map[string]bool)

	for _, folder := range folders {
		for _, note := range ScanFolder(folder, extensions, folder) {
			if seen[note.Metadata.AbsolutePath] {
				slog.Debug("skipping duplicate note", "path", note.Metadata.AbsolutePath)
				continue
			}
			seen[note.Metadata.AbsolutePath] = true
			all = append(all, note)
		}
	}

	slog.Info("vault scan complete", "folders", len(folders), "notes", len(all))
	return all
}

func readNote(path, base string) (domain.Note, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("cannot read note", "path", path, "error", err)
		return domain.Note{}, false
	}

	frontmatter, body := ExtractFrontmatter(string(raw))
	unchecked, checked := CountCheckboxes(body)

	var modifiedAt time.Time
	var size int64
	if info, err := os.Stat(path); err == nil {
		modifiedAt = info.ModTime()
		size = info.Size()
	} else {
		slog.Warn("cannot stat note", "path", path, "error", err)
	}

	relPath, err := filepath.Rel(base, path)
	if err != nil {
		relPath = filepath.Base(path)
	}
	relPath = filepath.ToSlash(relPath)

	meta := domain.NoteMetadata{
		RelativePath: relPath,
		AbsolutePath: path,
		ModifiedAt:   modifiedAt,
		FileSize:     size,
		Priority:     stringField(frontmatter, "priority"),
		Deadline:     stringField(frontmatter, "deadline"),
		Tags:         tagsField(frontmatter),
		Unchecked:    unchecked,
		Checked:      checked,
		FolderName:   filepath.Base(filepath.Dir(path)),
		Frontmatter:  frontmatter,
	}

	return domain.Note{Metadata: meta, Content: body, RawContent: string(raw)}, true
}

func stringField(fm map[string]any, key string) string {
	switch v := fm[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		// yaml parses bare dates as timestamps
		return v.Format("2006-01-02")
	default:
		return strings.TrimSpace(strings.Trim(strings.TrimSpace(stringify(v)), `"`))
	}
}

func stringify(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(b), "\n")
}

func tagsField(fm map[string]any) []string {
	raw, ok := fm["tags"].([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}
