package repetition

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
)

// Config holds the scheduler settings, drawn from user configuration.
type Config struct {
	MaxLevel  int
	Intervals []int
}

// DefaultConfig returns the stock level cap and interval table.
func DefaultConfig() Config {
	return Config{MaxLevel: 5, Intervals: DefaultIntervals}
}

// HistoryLookup provides read access to per-topic quiz history.
// Implemented by the storage layer.
type HistoryLookup interface {
	// QuizHistory returns the entry for a topic, or nil if the topic
	// has never been scored.
	QuizHistory(topicKey string) (*domain.QuizHistoryEntry, error)
}

// Update is the computed result of one scoring event. The caller is
// responsible for persisting it; this package never writes history.
type Update struct {
	NewLevel        int
	NewIntervalDays int
	NextQuizAt      string
	LevelChange     LevelChange
}

// UpdateAfterScoring computes a topic's next level, interval and due
// date after a quiz has been scored. Topics with no history start at
// level 0, so their first fully correct quiz upgrades them to level 1.
func UpdateAfterScoring(history HistoryLookup, topicKey string, q1Correct bool, q2 domain.Evaluation, cfg Config, now time.Time) (Update, error) {
	entry, err := history.QuizHistory(topicKey)
	if err != nil {
		return Update{}, fmt.Errorf("looking up history for %s: %w", topicKey, err)
	}

	currentLevel := 0
	if entry != nil {
		currentLevel = entry.Level
	}

	newLevel := NextLevel(q1Correct, q2, currentLevel, cfg.MaxLevel)

	change := Same
	if newLevel > currentLevel {
		change = Upgrade
	} else if newLevel < currentLevel {
		change = Downgrade
	}

	update := Update{
		NewLevel:        newLevel,
		NewIntervalDays: IntervalDays(newLevel, cfg.Intervals),
		NextQuizAt:      NextQuizDate(newLevel, cfg.Intervals, now),
		LevelChange:     change,
	}

	slog.Info("repetition update",
		"topic", topicKey,
		"level", currentLevel,
		"new_level", newLevel,
		"change", change,
		"next_quiz_at", update.NextQuizAt,
	)
	return update, nil
}

// DueTopic is one topic whose next quiz date has passed.
type DueTopic struct {
	TopicKey     string
	Level        int
	IntervalDays int
	LastResult   *domain.QuizResult
}

// DueTopics returns the topics due on or before today, sorted by topic
// key so the output is deterministic regardless of map iteration order.
func DueTopics(entries map[string]domain.QuizHistoryEntry, today time.Time) []DueTopic {
	y, m, d := today.Date()
	todayDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var due []DueTopic
	for key, entry := range entries {
		if entry.NextQuizAt == "" {
			continue
		}
		nextAt, err := time.Parse(DateLayout, entry.NextQuizAt)
		if err != nil {
			slog.Warn("unparsable next quiz date", "topic", key, "next_quiz_at", entry.NextQuizAt)
			continue
		}
		if nextAt.After(todayDate) {
			continue
		}
		e := entry
		due = append(due, DueTopic{
			TopicKey:     key,
			Level:        entry.Level,
			IntervalDays: entry.IntervalDays,
			LastResult:   e.LastResult(),
		})
	}

	sort.Slice(due, func(i, j int) bool { return due[i].TopicKey < due[j].TopicKey })
	return due
}
