package ranking

// Tier is a skill bucket derived from a player's monthly win rate.
type Tier string

const (
	TierDiamond  Tier = "Diamond"
	TierPlatinum Tier = "Platinum"
	TierGold     Tier = "Gold"
	TierSilver   Tier = "Silver"
	TierBronze   Tier = "Bronze"
)

// Classify maps a win rate percentage to its tier. Values outside 0..100 are
// not clamped.
func Classify(winRate float64) Tier {
	switch {
	case winRate >= 60:
		return TierDiamond
	case winRate >= 55:
		return TierPlatinum
	case winRate >= 50:
		return TierGold
	case winRate >= 45:
		return TierSilver
	default:
		return TierBronze
	}
}

// Rank orders tiers for pairing, Diamond highest. Unknown tiers rank 0.
func Rank(t Tier) int {
	switch t {
	case TierDiamond:
		return 5
	case TierPlatinum:
		return 4
	case TierGold:
		return 3
	case TierSilver:
		return 2
	case TierBronze:
		return 1
	default:
		return 0
	}
}
