package model

// Tier is a membership level derived from the points balance.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// TierResult holds the current tier and progress to the next one.
// NextTier and PointsToNextTier are nil at the top tier.
type TierResult struct {
	Tier             Tier
	NextTier         *Tier
	PointsToNextTier *int64
}
