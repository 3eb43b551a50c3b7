// Package repetition implements the simplified SM-2 level scheduler.
//
// Each quizzable topic carries an integer level. A fully correct quiz
// raises the level by one, a failed quiz resets it to zero, and a
// partial answer holds it. The level indexes an interval table that
// determines when the topic is due again.
package repetition

import "github.com/conorfennell/notebrief/internal/domain"

// LevelChange describes how a scoring event moved a topic's level.
type LevelChange string

const (
	Upgrade   LevelChange = "upgrade"
	Downgrade LevelChange = "downgrade"
	Same      LevelChange = "same"
)

// NextLevel computes a topic's level after one quiz outcome.
//
// An incorrect Q1 or a poor Q2 resets to level 0. Q1 correctness
// dominates, so a wrong Q1 downgrades even when Q2 was good. A correct
// Q1 with a good Q2 upgrades, capped at maxLevel. Anything else (a
// partial Q2) holds the current level.
func NextLevel(q1Correct bool, q2 domain.Evaluation, currentLevel, maxLevel int) int {
	if !q1Correct || q2 == domain.EvalPoor {
		return 0
	}
	if q2 == domain.EvalGood {
		if currentLevel+1 > maxLevel {
			return maxLevel
		}
		return currentLevel + 1
	}
	return currentLevel
}
