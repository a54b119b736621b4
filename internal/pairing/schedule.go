package pairing

import (
	"math"

	"github.com/mauv0809/court-ledger/internal/session"
)

// Match is one scheduled game between two pairs.
type Match struct {
	PairA      Pair `json:"pair_a"`
	PairB      Pair `json:"pair_b"`
	PairAIndex int  `json:"pair_a_index"`
	PairBIndex int  `json:"pair_b_index"`
	Round      int  `json:"round"`
	// Forced is set when no remaining match avoided the pairs that just played.
	Forced bool `json:"forced"`
}

// Schedule orders every pairing of two pairs using a greedy heuristic: each
// next match is the first remaining one in which neither pair played the
// previous match. When none qualifies, the first remaining match is taken and
// marked Forced.
//
// Best effort only: consecutive repeats are avoided where the greedy order
// allows, and every repeat that does happen is on a Forced match. Round is a
// batching label of ceil(n/2) matches, not a true round-robin round.
func Schedule(pairs []Pair) []Match {
	n := len(pairs)
	if n < 2 {
		return []Match{}
	}

	type candidate struct{ i, j int }
	candidates := make([]candidate, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			candidates = append(candidates, candidate{i, j})
		}
	}

	perRound := max(1, (n+1)/2)
	used := make([]bool, len(candidates))
	lastA, lastB := -1, -1
	matches := make([]Match, 0, len(candidates))

	for len(matches) < len(candidates) {
		pick, forced := -1, false
		for k, c := range candidates {
			if used[k] {
				continue
			}
			if c.i != lastA && c.i != lastB && c.j != lastA && c.j != lastB {
				pick = k
				break
			}
		}
		if pick == -1 {
			forced = true
			for k := range candidates {
				if !used[k] {
					pick = k
					break
				}
			}
		}

		c := candidates[pick]
		used[pick] = true
		lastA, lastB = c.i, c.j
		matches = append(matches, Match{
			PairA:      pairs[c.i],
			PairB:      pairs[c.j],
			PairAIndex: c.i,
			PairBIndex: c.j,
			Round:      len(matches)/perRound + 1,
			Forced:     forced,
		})
	}
	return matches
}

// MatchCounts tallies how many scheduled matches each participant plays.
func MatchCounts(matches []Match) map[string]int {
	counts := make(map[string]int)
	for _, m := range matches {
		for _, p := range m.PairA.Players {
			counts[p.ID]++
		}
		for _, p := range m.PairB.Players {
			counts[p.ID]++
		}
	}
	return counts
}

// AverageMatches is the mean number of matches per rostered player, rounded
// to one decimal.
func AverageMatches(counts map[string]int, rosterSize int) float64 {
	if rosterSize <= 0 {
		return 0
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return math.Round(float64(total)/float64(rosterSize)*10) / 10
}

// Plan bundles a generated pairing and its schedule.
type Plan struct {
	Mode           Mode           `json:"mode"`
	Pairs          []Pair         `json:"pairs"`
	Matches        []Match        `json:"matches"`
	Counts         map[string]int `json:"counts"`
	AverageMatches float64        `json:"average_matches"`
}

// NewPlan schedules pairs generated from the roster.
func NewPlan(participants []session.Participant, pairs []Pair, mode Mode) Plan {
	matches := Schedule(pairs)
	counts := MatchCounts(matches)
	return Plan{
		Mode:           mode,
		Pairs:          pairs,
		Matches:        matches,
		Counts:         counts,
		AverageMatches: AverageMatches(counts, len(participants)),
	}
}
