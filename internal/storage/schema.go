package storage

const schema = `
-- Run counters, one row per feature stream ("news" / "quiz").
CREATE TABLE IF NOT EXISTS run_counters (
    feature TEXT PRIMARY KEY,
    count INTEGER NOT NULL DEFAULT 0
);

-- Sliding window of recent random picks, newest first by id.
CREATE TABLE IF NOT EXISTS random_picks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    relative_path TEXT NOT NULL,
    picked_at DATETIME NOT NULL
);

-- Per-topic spaced-repetition state.
CREATE TABLE IF NOT EXISTS quiz_history (
    topic_key TEXT PRIMARY KEY,
    level INTEGER NOT NULL DEFAULT 0,
    interval_days INTEGER NOT NULL DEFAULT 1,
    next_quiz_at TEXT NOT NULL DEFAULT '',
    last_quizzed_at TEXT NOT NULL DEFAULT ''
);

-- Append-only quiz outcomes per topic; never pruned.
CREATE TABLE IF NOT EXISTS quiz_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    topic_key TEXT NOT NULL,
    date TEXT NOT NULL,
    q1_correct INTEGER NOT NULL,
    q2_evaluation TEXT NOT NULL,
    pattern TEXT NOT NULL DEFAULT '',

    FOREIGN KEY(topic_key) REFERENCES quiz_history(topic_key)
);

-- Quizzes shown but not yet scored.
CREATE TABLE IF NOT EXISTS pending_quizzes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    briefing_file TEXT NOT NULL,
    topic_key TEXT NOT NULL,
    pattern TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
`
