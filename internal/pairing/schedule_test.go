package pairing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairsOf(n int) []Pair {
	ps := roster(2 * n)
	pairs := make([]Pair, n)
	for i := range pairs {
		pairs[i] = Pair{Players: ps[2*i : 2*i+2]}
	}
	return pairs
}

type slot struct {
	a, b, round int
	forced      bool
}

func slots(matches []Match) []slot {
	out := make([]slot, len(matches))
	for i, m := range matches {
		out[i] = slot{m.PairAIndex, m.PairBIndex, m.Round, m.Forced}
	}
	return out
}

func TestSchedule_Degenerate(t *testing.T) {
	assert.Empty(t, Schedule(nil))
	assert.Empty(t, Schedule(pairsOf(1)))

	two := Schedule(pairsOf(2))
	require.Len(t, two, 1)
	assert.Equal(t, slot{0, 1, 1, false}, slots(two)[0])
}

func TestSchedule_FourPairs(t *testing.T) {
	matches := Schedule(pairsOf(4))
	require.Len(t, matches, 6)

	assert.Equal(t, []slot{
		{0, 1, 1, false},
		{2, 3, 1, false},
		{0, 2, 2, true},
		{1, 3, 2, false},
		{0, 3, 3, true},
		{1, 2, 3, false},
	}, slots(matches))

	perPair := make(map[int]int)
	for _, m := range matches {
		perPair[m.PairAIndex]++
		perPair[m.PairBIndex]++
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, 3, perPair[i], "pair %d", i)
	}
}

func TestSchedule_ThreePairs(t *testing.T) {
	assert.Equal(t, []slot{
		{0, 1, 1, false},
		{0, 2, 1, true},
		{1, 2, 2, true},
	}, slots(Schedule(pairsOf(3))))
}

func TestSchedule_FivePairs(t *testing.T) {
	assert.Equal(t, []slot{
		{0, 1, 1, false},
		{2, 3, 1, false},
		{0, 4, 1, false},
		{1, 2, 2, false},
		{0, 3, 2, false},
		{1, 4, 2, false},
		{0, 2, 3, false},
		{1, 3, 3, false},
		{2, 4, 3, false},
		{3, 4, 4, true},
	}, slots(Schedule(pairsOf(5))))
}

func TestSchedule_RepeatsOnlyWhenForced(t *testing.T) {
	for n := 2; n <= 10; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			matches := Schedule(pairsOf(n))
			require.Len(t, matches, n*(n-1)/2)
			assert.False(t, matches[0].Forced)

			seen := make(map[[2]int]bool)
			for k, m := range matches {
				key := [2]int{m.PairAIndex, m.PairBIndex}
				assert.False(t, seen[key], "match %v scheduled twice", key)
				seen[key] = true
				assert.Less(t, m.PairAIndex, m.PairBIndex)

				if k == 0 {
					continue
				}
				prev := matches[k-1]
				shares := m.PairAIndex == prev.PairAIndex || m.PairAIndex == prev.PairBIndex ||
					m.PairBIndex == prev.PairAIndex || m.PairBIndex == prev.PairBIndex
				if shares {
					assert.True(t, m.Forced, "match %d repeats a pair without being forced", k)
				}
			}
		})
	}
}

func TestMatchCountsAndAverage(t *testing.T) {
	pairs := pairsOf(4)
	matches := Schedule(pairs)
	counts := MatchCounts(matches)

	require.Len(t, counts, 8)
	for id, c := range counts {
		assert.Equal(t, 3, c, id)
	}
	assert.Equal(t, 3.0, AverageMatches(counts, 8))
	assert.Zero(t, AverageMatches(counts, 0))
	assert.Equal(t, 2.7, AverageMatches(map[string]int{"a": 3, "b": 3, "c": 2}, 3))
}

func TestNewPlan(t *testing.T) {
	ps := roster(5)
	pairs := Balanced(ps, nil)
	plan := NewPlan(ps, pairs, ModeBalanced)

	assert.Equal(t, ModeBalanced, plan.Mode)
	assert.Len(t, plan.Pairs, 3)
	assert.Len(t, plan.Matches, 3)
	// Every pair plays twice; four players in two-person pairs and one singleton.
	assert.Equal(t, 2.0, plan.AverageMatches)
}
