package pairing

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/ranking"
	"github.com/mauv0809/court-ledger/internal/session"
)

// Mode selects how participants are paired into teams.
type Mode string

const (
	ModeRandom   Mode = "random"
	ModeBalanced Mode = "balanced"
)

// ParseMode accepts "random" or "balanced". Anything else is reported as not ok.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeRandom, ModeBalanced:
		return Mode(s), true
	default:
		return ModeRandom, false
	}
}

// Pair is a team of two participants, or a single participant left over from
// an odd roster.
type Pair struct {
	Players []session.Participant `json:"players"`
}

// IsSingleton reports whether the pair has only one player.
func (p Pair) IsSingleton() bool {
	return len(p.Players) == 1
}

// IDs returns the participant ids of the pair.
func (p Pair) IDs() []string {
	ids := make([]string, len(p.Players))
	for i, pl := range p.Players {
		ids[i] = pl.ID
	}
	return ids
}

// Names returns the display names of the pair.
func (p Pair) Names() []string {
	names := make([]string, len(p.Players))
	for i, pl := range p.Players {
		names[i] = pl.Name
	}
	return names
}

// TierLookup supplies the current tier of master players by player id.
type TierLookup func() (map[string]ranking.Tier, error)

// Random shuffles a copy of the roster and pairs consecutive players. An odd
// roster ends with a singleton.
func Random(participants []session.Participant, rng *rand.Rand) []Pair {
	shuffled := make([]session.Participant, len(participants))
	copy(shuffled, participants)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairs := make([]Pair, 0, (len(shuffled)+1)/2)
	for i := 0; i < len(shuffled); i += 2 {
		if i+1 < len(shuffled) {
			pairs = append(pairs, Pair{Players: []session.Participant{shuffled[i], shuffled[i+1]}})
		} else {
			pairs = append(pairs, Pair{Players: []session.Participant{shuffled[i]}})
		}
	}
	return pairs
}

// Balanced pairs the strongest remaining player with the weakest. Masters
// are ranked by tier, defaulting to Bronze when the tier is unknown.
// Temporary participants rank below every tier.
func Balanced(participants []session.Participant, tiers map[string]ranking.Tier) []Pair {
	sorted := make([]session.Participant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(a, b int) bool {
		return rankOf(sorted[a], tiers) > rankOf(sorted[b], tiers)
	})

	n := len(sorted)
	pairs := make([]Pair, 0, (n+1)/2)
	for i := 0; i < n/2; i++ {
		pairs = append(pairs, Pair{Players: []session.Participant{sorted[i], sorted[n-1-i]}})
	}
	if n%2 == 1 {
		pairs = append(pairs, Pair{Players: []session.Participant{sorted[n/2]}})
	}
	return pairs
}

func rankOf(p session.Participant, tiers map[string]ranking.Tier) int {
	if !p.IsMaster() {
		return 0
	}
	tier, ok := tiers[p.PlayerID]
	if !ok {
		tier = ranking.TierBronze
	}
	return ranking.Rank(tier)
}

// Generate pairs the roster in the requested mode. Balanced mode falls back
// to random pairing when the tier lookup fails; the returned mode is the one
// actually used. A nil rng is seeded from the clock.
func Generate(participants []session.Participant, mode Mode, lookup TierLookup, rng *rand.Rand) ([]Pair, Mode) {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	if mode == ModeBalanced {
		if lookup == nil {
			log.Warn("No tier source available, falling back to random pairing")
			return Random(participants, rng), ModeRandom
		}
		tiers, err := lookup()
		if err != nil {
			log.Warn("Failed to load tiers, falling back to random pairing", "error", err)
			return Random(participants, rng), ModeRandom
		}
		return Balanced(participants, tiers), ModeBalanced
	}
	return Random(participants, rng), ModeRandom
}
