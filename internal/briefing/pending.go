package briefing

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
)

// PendingRegistrar records quiz topics awaiting an answer.
type PendingRegistrar interface {
	AddPendingQuiz(pq domain.PendingQuiz) error
}

// RegisterPending reads a generated quiz briefing, extracts its topic
// markers, and records each as a pending quiz. Topics stay pending
// until an answer arrives or the next quiz run auto-fails them.
func RegisterPending(store PendingRegistrar, briefingFile string, now time.Time) ([]Topic, error) {
	content, _, err := SafeRead(briefingFile)
	if err != nil {
		return nil, err
	}

	topics := ExtractTopics(content)
	if len(topics) == 0 {
		slog.Warn("briefing contains no topic markers", "path", briefingFile)
		return nil, nil
	}

	created := now.Format("2006-01-02")
	for _, topic := range topics {
		pq := domain.PendingQuiz{
			BriefingFile: briefingFile,
			TopicKey:     topic.Key,
			Pattern:      topic.Pattern,
			CreatedAt:    created,
		}
		if err := store.AddPendingQuiz(pq); err != nil {
			return nil, fmt.Errorf("failed to register pending quiz for %s: %w", topic.Key, err)
		}
	}

	slog.Info("registered pending quizzes", "path", briefingFile, "topics", len(topics))
	return topics, nil
}
