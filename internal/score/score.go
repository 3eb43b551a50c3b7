// Package score computes the interest score of a scanned note.
//
// Scoring is purely additive over independent rules: recency of the
// last modification, frontmatter priority, deadline proximity, and the
// presence of open checklist items. Semantic relevance of the note
// content is out of scope; the score only looks at metadata.
package score

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
)

const (
	ModifiedTodayScore = 50
	ModifiedWeekScore  = 30
	ModifiedMonthScore = 10

	PriorityHighScore   = 30
	PriorityMediumScore = 15

	Deadline3DaysScore = 25
	Deadline7DaysScore = 15

	HasUncheckedScore = 10
)

// DateLayout is the calendar-date format used for deadlines and quiz dates.
const DateLayout = "2006-01-02"

// Calculate scores a single note at the given time. The breakdown map
// contains one entry per rule that fired and its values sum to Score.
func Calculate(note domain.Note, now time.Time) domain.ScoredNote {
	total := 0
	breakdown := make(map[string]int)
	meta := note.Metadata

	if !meta.ModifiedAt.IsZero() {
		age := now.Sub(meta.ModifiedAt)
		switch {
		case age <= 24*time.Hour:
			total += ModifiedTodayScore
			breakdown["modified_today"] = ModifiedTodayScore
		case age <= 7*24*time.Hour:
			total += ModifiedWeekScore
			breakdown["modified_week"] = ModifiedWeekScore
		case age <= 30*24*time.Hour:
			total += ModifiedMonthScore
			breakdown["modified_month"] = ModifiedMonthScore
		}
	}

	switch strings.ToLower(meta.Priority) {
	case domain.PriorityHigh:
		total += PriorityHighScore
		breakdown["priority_high"] = PriorityHighScore
	case domain.PriorityMedium:
		total += PriorityMediumScore
		breakdown["priority_medium"] = PriorityMediumScore
	}

	if meta.Deadline != "" {
		deadline, err := time.Parse(DateLayout, meta.Deadline)
		if err != nil {
			// An unparsable deadline never fails scoring.
			slog.Debug("unparsable deadline", "path", meta.RelativePath, "deadline", meta.Deadline)
		} else {
			// Floor, so a deadline earlier today counts as -1, not 0.
			daysUntil := int(math.Floor(deadline.Sub(now).Hours() / 24))
			switch {
			case daysUntil >= 0 && daysUntil <= 3:
				total += Deadline3DaysScore
				breakdown["deadline_3days"] = Deadline3DaysScore
			case daysUntil >= 0 && daysUntil <= 7:
				total += Deadline7DaysScore
				breakdown["deadline_7days"] = Deadline7DaysScore
			}
		}
	}

	if meta.Unchecked > 0 {
		total += HasUncheckedScore
		breakdown["has_unchecked"] = HasUncheckedScore
	}

	return domain.ScoredNote{Note: note, Score: total, Breakdown: breakdown}
}
