package ranking

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// UnknownName is shown for players missing from the registry.
const UnknownName = "Unknown"

// Record is one master participation as read from the participation store.
type Record struct {
	PlayerID    string `json:"player_id"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	SessionDate string `json:"session_date"` // YYYY-MM-DD
}

// Period selects a calendar month.
type Period struct {
	Month int `json:"month"` // 1-12
	Year  int `json:"year"`
}

// Entry is one leaderboard row.
type Entry struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Total    int     `json:"total"`
	Sessions int     `json:"sessions"`
	WinRate  float64 `json:"win_rate"`
	Tier     Tier    `json:"tier"`
}

// Build aggregates participation records within the period into a leaderboard
// sorted by win rate, highest first. Ties keep first-appearance order.
func Build(records []Record, names map[string]string, period Period) []Entry {
	entries := make([]Entry, 0)
	index := make(map[string]int)

	for _, r := range records {
		if r.PlayerID == "" || !period.Contains(r.SessionDate) {
			continue
		}
		i, ok := index[r.PlayerID]
		if !ok {
			i = len(entries)
			index[r.PlayerID] = i
			entries = append(entries, Entry{PlayerID: r.PlayerID})
		}
		entries[i].Wins += r.Wins
		entries[i].Losses += r.Losses
		entries[i].Sessions++
	}

	for i := range entries {
		e := &entries[i]
		e.Total = e.Wins + e.Losses
		e.WinRate = WinRate(e.Wins, e.Losses)
		e.Tier = Classify(e.WinRate)
		e.Name = UnknownName
		if name, ok := names[e.PlayerID]; ok && name != "" {
			e.Name = name
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].WinRate > entries[b].WinRate
	})
	return entries
}

// WinRate returns wins as a percentage of played matches, rounded to one
// decimal. No matches played yields 0.
func WinRate(wins, losses int) float64 {
	total := wins + losses
	if total <= 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(total)*1000) / 10
}

// Contains reports whether a YYYY-MM-DD date falls inside the period.
func (p Period) Contains(date string) bool {
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return year == p.Year && month == p.Month
}

// TierMap indexes the tier of every leaderboard entry by player id.
func TierMap(entries []Entry) map[string]Tier {
	tiers := make(map[string]Tier, len(entries))
	for _, e := range entries {
		tiers[e.PlayerID] = e.Tier
	}
	return tiers
}
