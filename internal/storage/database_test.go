package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "notebrief.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunCounters(t *testing.T) {
	db := openTestDB(t)

	count, err := db.RunCount(domain.FeatureNews)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected fresh counter to be 0, got %d", count)
	}

	for want := 1; want <= 3; want++ {
		count, err = db.IncrementRunCount(domain.FeatureNews)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != want {
			t.Errorf("expected counter %d, got %d", want, count)
		}
	}

	// The quiz stream counts independently.
	count, err = db.IncrementRunCount(domain.FeatureQuiz)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected independent quiz counter 1, got %d", count)
	}
}

func TestRandomPickHistoryWindow(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	if err := db.RecordRandomPicks([]string{"a.md", "b.md", "c.md"}, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.RecordRandomPicks([]string{"d.md", "e.md", "f.md"}, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paths, err := db.RecentRandomPicks()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 6 {
		t.Fatalf("expected 6 paths in window, got %d", len(paths))
	}
	if paths[0] != "f.md" {
		t.Errorf("expected newest pick first, got %s", paths[0])
	}

	// A third and fourth run of 3 picks: window keeps 3 runs = 9 entries,
	// dropping the oldest run.
	if err := db.RecordRandomPicks([]string{"g.md", "h.md", "i.md"}, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.RecordRandomPicks([]string{"j.md", "k.md", "l.md"}, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paths, err = db.RecentRandomPicks()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 9 {
		t.Fatalf("expected trimmed window of 9, got %d", len(paths))
	}
	for _, p := range paths {
		if p == "a.md" || p == "b.md" || p == "c.md" {
			t.Errorf("expected oldest run evicted, still found %s", p)
		}
	}

	// Empty pick lists leave the window untouched.
	if err := db.RecordRandomPicks(nil, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuizHistoryRoundTrip(t *testing.T) {
	db := openTestDB(t)

	entry, err := db.QuizHistory("notes/go.md#channels")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Fatal("expected nil entry for unseen topic")
	}

	first := domain.QuizResult{Date: "2026-01-10", Q1Correct: true, Q2Evaluation: domain.EvalGood, Pattern: domain.PatternLearning}
	if err := db.UpdateQuizHistory("notes/go.md#channels", first, 1, 3, "2026-01-13"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := domain.QuizResult{Date: "2026-01-13", Q1Correct: false, Q2Evaluation: domain.EvalPoor, Pattern: domain.PatternReview}
	if err := db.UpdateQuizHistory("notes/go.md#channels", second, 0, 1, "2026-01-14"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, err = db.QuizHistory("notes/go.md#channels")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an entry after updates")
	}
	if entry.Level != 0 || entry.IntervalDays != 1 || entry.NextQuizAt != "2026-01-14" {
		t.Errorf("unexpected state: %+v", entry)
	}
	if entry.LastQuizzedAt != "2026-01-13" {
		t.Errorf("expected last quizzed 2026-01-13, got %s", entry.LastQuizzedAt)
	}
	if len(entry.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(entry.Results))
	}
	if !entry.Results[0].Q1Correct || entry.Results[1].Q1Correct {
		t.Errorf("results out of order: %+v", entry.Results)
	}
	last := entry.LastResult()
	if last == nil || last.Q2Evaluation != domain.EvalPoor || last.Pattern != domain.PatternReview {
		t.Errorf("unexpected last result: %+v", last)
	}
}

func TestAllQuizHistory(t *testing.T) {
	db := openTestDB(t)

	result := domain.QuizResult{Date: "2026-01-10", Q1Correct: true, Q2Evaluation: domain.EvalGood}
	if err := db.UpdateQuizHistory("a#1", result, 1, 3, "2026-01-13"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.UpdateQuizHistory("b#1", result, 2, 7, "2026-01-17"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := db.AllQuizHistory()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries["b#1"].Level != 2 || len(entries["b#1"].Results) != 1 {
		t.Errorf("unexpected entry: %+v", entries["b#1"])
	}
}

func TestPendingQuizzes(t *testing.T) {
	db := openTestDB(t)

	pq1 := domain.PendingQuiz{BriefingFile: "briefing_quiz_1.md", TopicKey: "a#1", Pattern: domain.PatternLearning, CreatedAt: "2026-01-10"}
	pq2 := domain.PendingQuiz{BriefingFile: "briefing_quiz_1.md", TopicKey: "b#1", Pattern: domain.PatternReview, CreatedAt: "2026-01-10"}
	for _, pq := range []domain.PendingQuiz{pq1, pq2} {
		if err := db.AddPendingQuiz(pq); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	removed, err := db.RemovePendingQuiz("a#1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed == nil || removed.Pattern != domain.PatternLearning {
		t.Errorf("unexpected removed quiz: %+v", removed)
	}

	removed, err = db.RemovePendingQuiz("missing#1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != nil {
		t.Errorf("expected nil for a topic with nothing pending, got %+v", removed)
	}

	cleared, err := db.ClearPendingQuizzes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cleared) != 1 || cleared[0].TopicKey != "b#1" {
		t.Errorf("unexpected cleared quizzes: %+v", cleared)
	}

	pending, err := db.PendingQuizzes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending quizzes after clear, got %d", len(pending))
	}
}
