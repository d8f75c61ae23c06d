package catalog

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/loyaltyengine/internal/config"
	"github.com/polkiloo/loyaltyengine/internal/domain/repository"
)

// Module provides the reward catalog gateway.
var Module = fx.Options(
	fx.Provide(newCache, newGateway),
)

func newCache(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) Cache {
	if cfg.RedisAddress == "" {
		logger.Info("reward cache disabled")
		return nopCache{}
	}

	cache := NewRedisCache(cfg.RedisAddress, defaultKeyPrefix)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return cache.Close()
		},
	})
	logger.Info("reward cache enabled", slog.String("redis", cfg.RedisAddress))
	return cache
}

func newGateway(repo repository.RewardRepository, cache Cache, cfg *config.Config, logger *slog.Logger) *Gateway {
	return NewGateway(repo, cache, cfg.RewardCacheTTL, logger)
}
