// Package storage persists the assistant's state: run counters, the
// random-pick history window, per-topic quiz history, and pending
// quizzes. It owns nothing about the scheduling rules; callers compute
// next values and this package records them.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/conorfennell/notebrief/internal/domain"
)

// The pick history keeps roughly three runs' worth of random picks,
// hard-capped so a misconfigured random count cannot grow it unbounded.
const (
	pickHistoryRuns    = 3
	pickHistoryMaxRows = 60
)

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// IncrementRunCount bumps the run counter for a feature stream and
// returns the new value. The counter starts at 0 and is incremented
// once before each selection call.
func (db *DB) IncrementRunCount(feature domain.Feature) (int, error) {
	_, err := db.conn.Exec(`
		INSERT INTO run_counters (feature, count) VALUES (?, 1)
		ON CONFLICT(feature) DO UPDATE SET count = count + 1
	`, string(feature))
	if err != nil {
		return 0, fmt.Errorf("failed to increment run count for %s: %w", feature, err)
	}
	return db.RunCount(feature)
}

// RunCount returns the current run counter for a feature stream.
func (db *DB) RunCount(feature domain.Feature) (int, error) {
	var count int
	err := db.conn.QueryRow(`
		SELECT count FROM run_counters WHERE feature = ?
	`, string(feature)).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get run count for %s: %w", feature, err)
	}
	return count, nil
}

// RecordRandomPicks appends this run's random picks to the history and
// trims the window to the most recent entries.
func (db *DB) RecordRandomPicks(paths []string, pickedAt time.Time) error {
	if len(paths) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin pick history update: %w", err)
	}
	defer tx.Rollback()

	for _, path := range paths {
		if _, err := tx.Exec(`
			INSERT INTO random_picks (relative_path, picked_at) VALUES (?, ?)
		`, path, pickedAt); err != nil {
			return fmt.Errorf("failed to record pick %s: %w", path, err)
		}
	}

	keep := pickHistoryRuns * len(paths)
	if keep > pickHistoryMaxRows {
		keep = pickHistoryMaxRows
	}
	if _, err := tx.Exec(`
		DELETE FROM random_picks WHERE id NOT IN (
			SELECT id FROM random_picks ORDER BY id DESC LIMIT ?
		)
	`, keep); err != nil {
		return fmt.Errorf("failed to trim pick history: %w", err)
	}

	return tx.Commit()
}

// RecentRandomPicks returns the relative paths currently in the pick
// history window, newest first.
func (db *DB) RecentRandomPicks() ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT relative_path FROM random_picks ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get pick history: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan pick history row: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// QuizHistory returns the history entry for a topic, including its
// recorded results, or nil if the topic has never been scored.
func (db *DB) QuizHistory(topicKey string) (*domain.QuizHistoryEntry, error) {
	var entry domain.QuizHistoryEntry
	err := db.conn.QueryRow(`
		SELECT topic_key, level, interval_days, next_quiz_at, last_quizzed_at
		FROM quiz_history WHERE topic_key = ?
	`, topicKey).Scan(&entry.TopicKey, &entry.Level, &entry.IntervalDays, &entry.NextQuizAt, &entry.LastQuizzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find quiz history for %s: %w", topicKey, err)
	}

	results, err := db.quizResults(topicKey)
	if err != nil {
		return nil, err
	}
	entry.Results = results
	return &entry, nil
}

// AllQuizHistory returns every topic's history entry keyed by topic key.
func (db *DB) AllQuizHistory() (map[string]domain.QuizHistoryEntry, error) {
	rows, err := db.conn.Query(`
		SELECT topic_key, level, interval_days, next_quiz_at, last_quizzed_at
		FROM quiz_history
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz history: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]domain.QuizHistoryEntry)
	for rows.Next() {
		var entry domain.QuizHistoryEntry
		if err := rows.Scan(&entry.TopicKey, &entry.Level, &entry.IntervalDays, &entry.NextQuizAt, &entry.LastQuizzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz history row: %w", err)
		}
		entries[entry.TopicKey] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for key, entry := range entries {
		results, err := db.quizResults(key)
		if err != nil {
			return nil, err
		}
		entry.Results = results
		entries[key] = entry
	}
	return entries, nil
}

func (db *DB) quizResults(topicKey string) ([]domain.QuizResult, error) {
	rows, err := db.conn.Query(`
		SELECT date, q1_correct, q2_evaluation, pattern
		FROM quiz_results WHERE topic_key = ? ORDER BY id
	`, topicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz results for %s: %w", topicKey, err)
	}
	defer rows.Close()

	var results []domain.QuizResult
	for rows.Next() {
		var r domain.QuizResult
		var correct int
		if err := rows.Scan(&r.Date, &correct, &r.Q2Evaluation, &r.Pattern); err != nil {
			return nil, fmt.Errorf("failed to scan quiz result row: %w", err)
		}
		r.Q1Correct = correct != 0
		results = append(results, r)
	}
	return results, rows.Err()
}

// UpdateQuizHistory upserts a topic's scheduling state and appends the
// scored result. Results are append-only; the full trail is kept.
func (db *DB) UpdateQuizHistory(topicKey string, result domain.QuizResult, newLevel, newIntervalDays int, nextQuizAt string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history update for %s: %w", topicKey, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO quiz_history (topic_key, level, interval_days, next_quiz_at, last_quizzed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(topic_key) DO UPDATE SET
			level = excluded.level,
			interval_days = excluded.interval_days,
			next_quiz_at = excluded.next_quiz_at,
			last_quizzed_at = excluded.last_quizzed_at
	`, topicKey, newLevel, newIntervalDays, nextQuizAt, result.Date); err != nil {
		return fmt.Errorf("failed to upsert quiz history for %s: %w", topicKey, err)
	}

	correct := 0
	if result.Q1Correct {
		correct = 1
	}
	if _, err := tx.Exec(`
		INSERT INTO quiz_results (topic_key, date, q1_correct, q2_evaluation, pattern)
		VALUES (?, ?, ?, ?, ?)
	`, topicKey, result.Date, correct, string(result.Q2Evaluation), string(result.Pattern)); err != nil {
		return fmt.Errorf("failed to append quiz result for %s: %w", topicKey, err)
	}

	return tx.Commit()
}

// AddPendingQuiz records a quiz that has been shown but not answered.
func (db *DB) AddPendingQuiz(pq domain.PendingQuiz) error {
	_, err := db.conn.Exec(`
		INSERT INTO pending_quizzes (briefing_file, topic_key, pattern, created_at)
		VALUES (?, ?, ?, ?)
	`, pq.BriefingFile, pq.TopicKey, string(pq.Pattern), pq.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add pending quiz for %s: %w", pq.TopicKey, err)
	}
	return nil
}

// PendingQuizzes returns every unanswered quiz, oldest first.
func (db *DB) PendingQuizzes() ([]domain.PendingQuiz, error) {
	rows, err := db.conn.Query(`
		SELECT briefing_file, topic_key, pattern, created_at
		FROM pending_quizzes ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending quizzes: %w", err)
	}
	defer rows.Close()

	var pending []domain.PendingQuiz
	for rows.Next() {
		var pq domain.PendingQuiz
		if err := rows.Scan(&pq.BriefingFile, &pq.TopicKey, &pq.Pattern, &pq.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending quiz row: %w", err)
		}
		pending = append(pending, pq)
	}
	return pending, rows.Err()
}

// RemovePendingQuiz deletes the pending entry for a topic and returns
// it, or nil if nothing was pending for that topic.
func (db *DB) RemovePendingQuiz(topicKey string) (*domain.PendingQuiz, error) {
	var pq domain.PendingQuiz
	err := db.conn.QueryRow(`
		SELECT briefing_file, topic_key, pattern, created_at
		FROM pending_quizzes WHERE topic_key = ? ORDER BY id LIMIT 1
	`, topicKey).Scan(&pq.BriefingFile, &pq.TopicKey, &pq.Pattern, &pq.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending quiz for %s: %w", topicKey, err)
	}

	if _, err := db.conn.Exec(`
		DELETE FROM pending_quizzes WHERE topic_key = ?
	`, topicKey); err != nil {
		return nil, fmt.Errorf("failed to remove pending quiz for %s: %w", topicKey, err)
	}
	return &pq, nil
}

// ClearPendingQuizzes removes all pending quizzes and returns them.
func (db *DB) ClearPendingQuizzes() ([]domain.PendingQuiz, error) {
	pending, err := db.PendingQuizzes()
	if err != nil {
		return nil, err
	}
	if _, err := db.conn.Exec(`DELETE FROM pending_quizzes`); err != nil {
		return nil, fmt.Errorf("failed to clear pending quizzes: %w", err)
	}
	return pending, nil
}
