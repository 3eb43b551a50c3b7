package repetition

import "time"

// DefaultIntervals maps levels 0..5 to days until the next quiz.
var DefaultIntervals = []int{1, 3, 7, 14, 30, 60}

// DateLayout is the calendar-date format used for due dates.
const DateLayout = "2006-01-02"

// IntervalDays returns the interval for the given level, clamping to
// the last configured entry for levels beyond the table.
func IntervalDays(level int, intervals []int) int {
	if len(intervals) == 0 {
		intervals = DefaultIntervals
	}
	idx := level
	if idx > len(intervals)-1 {
		idx = len(intervals) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return intervals[idx]
}

// NextQuizDate returns the calendar date the topic becomes due again,
// interval days after now, formatted as YYYY-MM-DD.
func NextQuizDate(level int, intervals []int, now time.Time) string {
	return now.AddDate(0, 0, IntervalDays(level, intervals)).Format(DateLayout)
}
