package loyalty

import (
	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

type tierBand struct {
	tier model.Tier
	// upper is the exclusive bound of the band; zero marks the open top band.
	upper int64
}

var tierBands = []tierBand{
	{tier: model.TierBronze, upper: 100},
	{tier: model.TierSilver, upper: 500},
	{tier: model.TierGold, upper: 1000},
	{tier: model.TierPlatinum},
}

// CalculateRewardTier maps a points balance to its tier and the distance to the next one.
func CalculateRewardTier(points int64) (model.TierResult, error) {
	if points < 0 {
		return model.TierResult{}, domainErrors.ErrInvalidArgument
	}

	for i, band := range tierBands {
		if band.upper == 0 {
			return model.TierResult{Tier: band.tier}, nil
		}
		if points < band.upper {
			next := tierBands[i+1].tier
			remaining := band.upper - points
			return model.TierResult{Tier: band.tier, NextTier: &next, PointsToNextTier: &remaining}, nil
		}
	}
	return model.TierResult{}, domainErrors.ErrInvalidArgument
}
