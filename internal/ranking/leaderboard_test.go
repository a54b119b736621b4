package ranking

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2024 = Period{Month: 3, Year: 2024}

func TestBuild_AggregatesMonth(t *testing.T) {
	records := []Record{
		{PlayerID: "p1", Wins: 4, Losses: 1, SessionDate: "2024-03-02"},
		{PlayerID: "p1", Wins: 2, Losses: 3, SessionDate: "2024-03-16"},
		{PlayerID: "p1", Wins: 9, Losses: 0, SessionDate: "2024-04-01"},
		{PlayerID: "", Wins: 5, Losses: 0, SessionDate: "2024-03-02"},
	}

	got := Build(records, map[string]string{"p1": "Alice"}, march2024)

	want := []Entry{{
		PlayerID: "p1",
		Name:     "Alice",
		Wins:     6,
		Losses:   4,
		Total:    10,
		Sessions: 2,
		WinRate:  60.0,
		Tier:     TierDiamond,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SortAndFallbacks(t *testing.T) {
	records := []Record{
		{PlayerID: "low", Wins: 1, Losses: 3, SessionDate: "2024-03-01"},
		{PlayerID: "tieA", Wins: 1, Losses: 1, SessionDate: "2024-03-01"},
		{PlayerID: "high", Wins: 3, Losses: 0, SessionDate: "2024-03-01"},
		{PlayerID: "tieB", Wins: 2, Losses: 2, SessionDate: "2024-03-08"},
		{PlayerID: "idle", Wins: 0, Losses: 0, SessionDate: "2024-03-08"},
		{PlayerID: "bad", Wins: 5, Losses: 0, SessionDate: "March 8"},
	}
	names := map[string]string{"low": "Low", "tieA": "Tie A", "high": "High", "tieB": "Tie B"}

	got := Build(records, names, march2024)
	require.Len(t, got, 5)

	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.PlayerID
	}
	assert.Equal(t, []string{"high", "tieA", "tieB", "low", "idle"}, ids)

	assert.Equal(t, UnknownName, got[4].Name)
	assert.Equal(t, 0.0, got[4].WinRate)
	assert.Equal(t, TierBronze, got[4].Tier)
	assert.Equal(t, 25.0, got[3].WinRate)
}

func TestBuild_TierUsesRoundedRate(t *testing.T) {
	// 59.95% rounds to 60.0, which is Diamond.
	records := []Record{
		{PlayerID: "p", Wins: 1199, Losses: 801, SessionDate: "2024-03-05"},
	}
	got := Build(records, nil, march2024)
	require.Len(t, got, 1)
	assert.Equal(t, 60.0, got[0].WinRate)
	assert.Equal(t, TierDiamond, got[0].Tier)
}

func TestBuild_Empty(t *testing.T) {
	got := Build(nil, nil, march2024)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuild_Idempotent(t *testing.T) {
	records := []Record{
		{PlayerID: "a", Wins: 3, Losses: 2, SessionDate: "2024-03-01"},
		{PlayerID: "b", Wins: 2, Losses: 3, SessionDate: "2024-03-01"},
		{PlayerID: "a", Wins: 1, Losses: 1, SessionDate: "2024-03-09"},
	}
	names := map[string]string{"a": "A", "b": "B"}

	first := Build(records, names, march2024)
	second := Build(records, names, march2024)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Build() is not idempotent (-first +second):\n%s", diff)
	}
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0.0, WinRate(0, 0))
	assert.Equal(t, 100.0, WinRate(3, 0))
	assert.Equal(t, 66.7, WinRate(2, 1))
	assert.Equal(t, 33.3, WinRate(1, 2))
}

func TestPeriodContains(t *testing.T) {
	assert.True(t, march2024.Contains("2024-03-31"))
	assert.True(t, march2024.Contains("2024-3-1"))
	assert.False(t, march2024.Contains("2023-03-31"))
	assert.False(t, march2024.Contains("2024-04-01"))
	assert.False(t, march2024.Contains(""))
	assert.False(t, march2024.Contains("2024/03/01"))
}

func TestTierMap(t *testing.T) {
	tiers := TierMap([]Entry{
		{PlayerID: "a", Tier: TierGold},
		{PlayerID: "b", Tier: TierBronze},
	})
	assert.Equal(t, map[string]Tier{"a": TierGold, "b": TierBronze}, tiers)
}
