package domain

// Evaluation is the qualitative grade of the free-form quiz question.
type Evaluation string

const (
	EvalGood    Evaluation = "good"
	EvalPartial Evaluation = "partial"
	EvalPoor    Evaluation = "poor"
)

// Pattern records whether a quiz topic was drawn as fresh material or
// as a spaced-repetition review.
type Pattern string

const (
	PatternLearning Pattern = "learning"
	PatternReview   Pattern = "review"
)

// Feature identifies one of the two scheduled run streams, each with
// its own run counter.
type Feature string

const (
	FeatureNews Feature = "news"
	FeatureQuiz Feature = "quiz"
)

// QuizResult is one scored quiz outcome for a topic.
type QuizResult struct {
	Date         string // YYYY-MM-DD
	Q1Correct    bool
	Q2Evaluation Evaluation
	Pattern      Pattern
}

// QuizHistoryEntry tracks one topic's spaced-repetition state. Results
// is append-only; entries are never deleted.
type QuizHistoryEntry struct {
	TopicKey      string
	Level         int
	IntervalDays  int
	NextQuizAt    string // YYYY-MM-DD, earliest date the topic is due again
	LastQuizzedAt string
	Results       []QuizResult
}

// LastResult returns the most recent quiz result, or nil if the topic
// has never been scored.
func (e *QuizHistoryEntry) LastResult() *QuizResult {
	if len(e.Results) == 0 {
		return nil
	}
	return &e.Results[len(e.Results)-1]
}

// PendingQuiz is a quiz that has been shown but not yet scored. Still
// pending when the next quiz run begins, it is resolved as an automatic
// incorrect answer.
type PendingQuiz struct {
	BriefingFile string
	TopicKey     string
	Pattern      Pattern
	CreatedAt    string
}
