// Package selection chooses which notes from a scanned vault go into a
// briefing, under a hard file budget.
//
// A normal run takes the 17 highest-scored notes plus 3 weighted-random
// picks. Every Nth run is a discovery round with the split flipped to
// 5 top plus 15 random, surfacing notes the score bias would otherwise
// never show. Random picks favor notes that have not been touched in a
// long time, and recently picked notes are excluded while enough other
// candidates remain.
package selection

import (
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/conorfennell/notebrief/internal/domain"
	"github.com/conorfennell/notebrief/internal/score"
)

const (
	DefaultMaxFiles          = 20
	DefaultDiscoveryInterval = 5

	normalTopCount      = 17
	normalRandomCount   = 3
	discoveryTopCount   = 5
	discoveryRandomCount = 15

	// Notes unmodified for this many days get their random weight
	// multiplied, so stale notes surface during discovery.
	oldFileThresholdDays  = 30
	oldFileWeightMultiplier = 3.0

	unknownModifiedWeight = 15.0
)

// Options configures one selection run. MaxFiles must be at least 1;
// the caller owns that validation.
type Options struct {
	RunCount          int
	DiscoveryInterval int
	MaxFiles          int
	RecentRandomPicks []string // relative paths picked randomly in recent runs
	Rand              *rand.Rand
}

// IsDiscoveryRound reports whether the given run is a discovery round.
// Run 0 never is, and a non-positive interval disables discovery.
func IsDiscoveryRound(runCount, discoveryInterval int) bool {
	if discoveryInterval <= 0 {
		return false
	}
	return runCount > 0 && runCount%discoveryInterval == 0
}

// Select partitions candidates into top-scored and weighted-random
// groups and returns the combined selection. The sort is stable: equal
// scores keep their scan order.
func Select(candidates []domain.Note, opts Options, now time.Time) domain.SelectionResult {
	if len(candidates) == 0 {
		slog.Warn("no candidate notes to select from")
		return domain.SelectionResult{}
	}

	// Small vault: everything fits, no scoring needed. Selected and
	// Top get separate copies so mutating one cannot affect the other.
	if len(candidates) <= opts.MaxFiles {
		return domain.SelectionResult{
			Selected:        append([]domain.Note(nil), candidates...),
			Top:             append([]domain.Note(nil), candidates...),
			TotalCandidates: len(candidates),
		}
	}

	scored := make([]domain.ScoredNote, len(candidates))
	for i, note := range candidates {
		scored[i] = score.Calculate(note, now)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	discovery := IsDiscoveryRound(opts.RunCount, opts.DiscoveryInterval)
	topCount, randomCount := normalTopCount, normalRandomCount
	if discovery {
		topCount, randomCount = discoveryTopCount, discoveryRandomCount
	}
	slog.Info("selecting notes",
		"run_count", opts.RunCount,
		"discovery", discovery,
		"top", topCount,
		"random", randomCount,
		"candidates", len(candidates),
	)

	if topCount > opts.MaxFiles {
		topCount = opts.MaxFiles
	}
	if randomCount > opts.MaxFiles-topCount {
		randomCount = opts.MaxFiles - topCount
	}

	top := make([]domain.Note, topCount)
	topPaths := make(map[string]bool, topCount)
	for i, sn := range scored[:topCount] {
		top[i] = sn.Note
		topPaths[sn.Note.Metadata.RelativePath] = true
	}

	remainder := scored[topCount:]
	pool := randomPool(remainder, opts.RecentRandomPicks, randomCount)

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}
	randomPicks := sampleWeighted(pool, randomCount, now, rng)

	selected := make([]domain.Note, 0, len(top)+len(randomPicks))
	selected = append(selected, top...)
	selected = append(selected, randomPicks...)

	return domain.SelectionResult{
		Selected:        selected,
		Top:             top,
		Random:          randomPicks,
		IsDiscovery:     discovery,
		TotalCandidates: len(candidates),
	}
}

// randomPool builds the candidate pool for the random picks: the
// non-top remainder minus recently picked paths. The recency exclusion
// is relaxed when it would leave fewer than want candidates.
func randomPool(remainder []domain.ScoredNote, recent []string, want int) []domain.Note {
	recentSet := make(map[string]bool, len(recent))
	for _, p := range recent {
		recentSet[p] = true
	}

	pool := make([]domain.Note, 0, len(remainder))
	for _, sn := range remainder {
		if !recentSet[sn.Note.Metadata.RelativePath] {
			pool = append(pool, sn.Note)
		}
	}

	if len(pool) < want {
		for _, sn := range remainder {
			if recentSet[sn.Note.Metadata.RelativePath] {
				pool = append(pool, sn.Note)
			}
		}
	}
	return pool
}

// randomWeight favors notes that have gone longest without an edit.
func randomWeight(note domain.Note, now time.Time) float64 {
	if note.Metadata.ModifiedAt.IsZero() {
		return unknownModifiedWeight
	}
	days := now.Sub(note.Metadata.ModifiedAt).Hours() / 24
	if days >= oldFileThresholdDays {
		return days * oldFileWeightMultiplier
	}
	if days < 1 {
		return 1
	}
	return days
}

// sampleWeighted draws up to count notes from pool without replacement,
// weighting by randomWeight. A degenerate all-zero weight distribution
// falls back to uniform sampling.
func sampleWeighted(pool []domain.Note, count int, now time.Time, rng *rand.Rand) []domain.Note {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	if count > len(pool) {
		count = len(pool)
	}

	remaining := append([]domain.Note(nil), pool...)
	weights := make([]float64, len(remaining))
	total := 0.0
	for i, n := range remaining {
		weights[i] = randomWeight(n, now)
		total += weights[i]
	}

	if total <= 0 {
		// Uniform fallback.
		rng.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})
		return remaining[:count]
	}

	picks := make([]domain.Note, 0, count)
	for len(picks) < count && len(remaining) > 0 {
		r := rng.Float64() * total
		idx := len(remaining) - 1
		for i, w := range weights {
			r -= w
			if r < 0 {
				idx = i
				break
			}
		}
		picks = append(picks, remaining[idx])
		total -= weights[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return picks
}
