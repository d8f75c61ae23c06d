// Package catalog is the read path for the reward catalog, optionally
// fronted by a Redis cache.
package catalog

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/domain/repository"
)

// Gateway resolves rewards by id and lists what a customer can redeem.
type Gateway struct {
	repo   repository.RewardRepository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewGateway builds a gateway. A nil cache disables caching.
func NewGateway(repo repository.RewardRepository, cache Cache, ttl time.Duration, logger *slog.Logger) *Gateway {
	if cache == nil {
		cache = nopCache{}
	}
	return &Gateway{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// GetReward returns an active reward. Missing and inactive rewards both
// yield domainErrors.ErrNotFound.
func (g *Gateway) GetReward(ctx context.Context, id int64) (*model.Reward, error) {
	key := "reward:" + strconv.FormatInt(id, 10)

	var cached model.Reward
	hit, err := g.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		g.logger.Warn("reward cache read failed", slog.Int64("reward_id", id), slog.Any("error", err))
	}
	if hit {
		return activeOnly(&cached)
	}

	reward, err := g.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.cache.SetJSON(ctx, key, reward, g.ttl); err != nil {
		g.logger.Warn("reward cache write failed", slog.Int64("reward_id", id), slog.Any("error", err))
	}
	return activeOnly(reward)
}

// ListRewards returns active global rewards plus those of businessID.
func (g *Gateway) ListRewards(ctx context.Context, businessID *int64) ([]model.Reward, error) {
	key := "rewards:global"
	if businessID != nil {
		key = "rewards:business:" + strconv.FormatInt(*businessID, 10)
	}

	var cached []model.Reward
	hit, err := g.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		g.logger.Warn("reward list cache read failed", slog.String("key", key), slog.Any("error", err))
	}
	if hit {
		return cached, nil
	}

	rewards, err := g.repo.ListActive(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := g.cache.SetJSON(ctx, key, rewards, g.ttl); err != nil {
		g.logger.Warn("reward list cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return rewards, nil
}

func activeOnly(reward *model.Reward) (*model.Reward, error) {
	if !reward.IsActive {
		return nil, domainErrors.ErrNotFound
	}
	return reward, nil
}
