package score

import (
	"testing"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
)

func noteWith(meta domain.NoteMetadata) domain.Note {
	if meta.RelativePath == "" {
		meta.RelativePath = "notes/test.md"
	}
	return domain.Note{Metadata: meta}
}

func TestCalculate(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		meta     domain.NoteMetadata
		expected int
	}{
		{
			name:     "modified today",
			meta:     domain.NoteMetadata{ModifiedAt: now.Add(-2 * time.Hour)},
			expected: 50,
		},
		{
			name:     "modified exactly 24h ago is still today",
			meta:     domain.NoteMetadata{ModifiedAt: now.Add(-24 * time.Hour)},
			expected: 50,
		},
		{
			name:     "modified within a week",
			meta:     domain.NoteMetadata{ModifiedAt: now.Add(-3 * 24 * time.Hour)},
			expected: 30,
		},
		{
			name:     "modified exactly 7 days ago",
			meta:     domain.NoteMetadata{ModifiedAt: now.Add(-7 * 24 * time.Hour)},
			expected: 30,
		},
		{
			name:     "modified within a month",
			meta:     domain.NoteMetadata{ModifiedAt: now.Add(-20 * 24 * time.Hour)},
			expected: 10,
		},
		{
			name:     "modified exactly 30 days ago",
			meta:     domain.NoteMetadata{ModifiedAt: now.Add(-30 * 24 * time.Hour)},
			expected: 10,
		},
		{
			name:     "modified long ago",
			meta:     domain.NoteMetadata{ModifiedAt: now.Add(-90 * 24 * time.Hour)},
			expected: 0,
		},
		{
			name:     "unknown modification time",
			meta:     domain.NoteMetadata{},
			expected: 0,
		},
		{
			name:     "high priority",
			meta:     domain.NoteMetadata{Priority: "high"},
			expected: 30,
		},
		{
			name:     "priority is case-insensitive",
			meta:     domain.NoteMetadata{Priority: "HIGH"},
			expected: 30,
		},
		{
			name:     "medium priority",
			meta:     domain.NoteMetadata{Priority: "medium"},
			expected: 15,
		},
		{
			name:     "low priority scores nothing",
			meta:     domain.NoteMetadata{Priority: "low"},
			expected: 0,
		},
		{
			name:     "unrecognized priority scores nothing",
			meta:     domain.NoteMetadata{Priority: "urgent"},
			expected: 0,
		},
		{
			name:     "deadline within 3 days",
			meta:     domain.NoteMetadata{Deadline: "2026-01-12"},
			expected: 25,
		},
		{
			name:     "deadline within 7 days",
			meta:     domain.NoteMetadata{Deadline: "2026-01-16"},
			expected: 15,
		},
		{
			name:     "deadline beyond 7 days",
			meta:     domain.NoteMetadata{Deadline: "2026-02-01"},
			expected: 0,
		},
		{
			name:     "deadline in the past",
			meta:     domain.NoteMetadata{Deadline: "2026-01-09"},
			expected: 0,
		},
		{
			name:     "unparsable deadline is ignored",
			meta:     domain.NoteMetadata{Deadline: "next tuesday"},
			expected: 0,
		},
		{
			name:     "open checklist items",
			meta:     domain.NoteMetadata{Unchecked: 3},
			expected: 10,
		},
		{
			name:     "completed checklist only",
			meta:     domain.NoteMetadata{Checked: 5},
			expected: 0,
		},
		{
			name: "all rules stack",
			meta: domain.NoteMetadata{
				ModifiedAt: now.Add(-1 * time.Hour),
				Priority:   "high",
				Deadline:   "2026-01-11",
				Unchecked:  1,
			},
			expected: 50 + 30 + 25 + 10,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scored := Calculate(noteWith(tc.meta), now)
			if scored.Score != tc.expected {
				t.Errorf("expected score %d, got %d (breakdown: %v)", tc.expected, scored.Score, scored.Breakdown)
			}
		})
	}
}

func TestBreakdownSumsToScore(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	metas := []domain.NoteMetadata{
		{},
		{ModifiedAt: now.Add(-2 * time.Hour), Priority: "high"},
		{ModifiedAt: now.Add(-10 * 24 * time.Hour), Deadline: "2026-01-13", Unchecked: 2},
		{Priority: "medium", Deadline: "2026-01-17", Checked: 4},
	}

	for _, meta := range metas {
		scored := Calculate(noteWith(meta), now)
		sum := 0
		for _, v := range scored.Breakdown {
			sum += v
		}
		if sum != scored.Score {
			t.Errorf("breakdown sum %d does not match score %d for %+v", sum, scored.Score, meta)
		}
	}
}

func TestBreakdownOnlyContainsFiredRules(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	scored := Calculate(noteWith(domain.NoteMetadata{Priority: "high"}), now)

	if len(scored.Breakdown) != 1 {
		t.Fatalf("expected exactly one breakdown entry, got %v", scored.Breakdown)
	}
	if scored.Breakdown["priority_high"] != 30 {
		t.Errorf("expected priority_high=30, got %v", scored.Breakdown)
	}
}
