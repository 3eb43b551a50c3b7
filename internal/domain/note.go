package domain

import "time"

// Priority levels recognized in note frontmatter. Anything else
// (including the empty string) contributes no score.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// NoteMetadata holds the structured header and file-level attributes
// of a scanned note. RelativePath uniquely identifies a note within
// one scan root.
type NoteMetadata struct {
	RelativePath string
	AbsolutePath string
	ModifiedAt   time.Time // zero value means unknown
	FileSize     int64
	Priority     string // "high" | "medium" | "low" | ""
	Deadline     string // YYYY-MM-DD, empty if none
	Tags         []string
	Unchecked    int
	Checked      int
	FolderName   string
	Frontmatter  map[string]any
}

// Note is a scanned note: metadata plus its body with and without the
// frontmatter block.
type Note struct {
	Metadata   NoteMetadata
	Content    string
	RawContent string
}

// ScoredNote pairs a note with its interest score. Breakdown holds one
// entry per scoring rule that fired; the values sum to Score.
type ScoredNote struct {
	Note      Note
	Score     int
	Breakdown map[string]int
}

// SelectionResult is the outcome of one selection run.
// Selected is always Top followed by Random, with no path appearing twice.
type SelectionResult struct {
	Selected        []Note
	Top             []Note
	Random          []Note
	IsDiscovery     bool
	TotalCandidates int
}

// RandomPaths returns the relative paths of the randomly selected notes,
// for recording in the pick history.
func (r SelectionResult) RandomPaths() []string {
	paths := make([]string, 0, len(r.Random))
	for _, n := range r.Random {
		paths = append(paths, n.Metadata.RelativePath)
	}
	return paths
}
