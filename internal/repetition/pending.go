package repetition

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
)

// PendingStore is the slice of the state store the auto-fail pass
// needs: history lookup plus pending-quiz bookkeeping.
type PendingStore interface {
	HistoryLookup
	PendingQuizzes() ([]domain.PendingQuiz, error)
	UpdateQuizHistory(topicKey string, result domain.QuizResult, newLevel, newIntervalDays int, nextQuizAt string) error
	ClearPendingQuizzes() ([]domain.PendingQuiz, error)
}

// ResolveUnanswered scores every still-pending quiz as an automatic
// incorrect answer. Called before a new quiz generation run, so topics
// the user skipped drop back to level 0 instead of lingering.
func ResolveUnanswered(store PendingStore, cfg Config, now time.Time) ([]Update, error) {
	pending, err := store.PendingQuizzes()
	if err != nil {
		return nil, fmt.Errorf("listing pending quizzes: %w", err)
	}
	if len(pending) == 0 {
		return nil, nil
	}
	slog.Info("resolving unanswered quizzes as incorrect", "count", len(pending))

	today := now.Format(DateLayout)
	updates := make([]Update, 0, len(pending))
	for _, pq := range pending {
		update, err := UpdateAfterScoring(store, pq.TopicKey, false, domain.EvalPoor, cfg, now)
		if err != nil {
			return updates, err
		}

		result := domain.QuizResult{
			Date:         today,
			Q1Correct:    false,
			Q2Evaluation: domain.EvalPoor,
			Pattern:      pq.Pattern,
		}
		if err := store.UpdateQuizHistory(pq.TopicKey, result, update.NewLevel, update.NewIntervalDays, update.NextQuizAt); err != nil {
			return updates, fmt.Errorf("recording auto-fail for %s: %w", pq.TopicKey, err)
		}
		updates = append(updates, update)
	}

	if _, err := store.ClearPendingQuizzes(); err != nil {
		return updates, fmt.Errorf("clearing pending quizzes: %w", err)
	}
	return updates, nil
}
