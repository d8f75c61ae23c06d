package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/loyaltyengine/internal/catalog"
	"github.com/polkiloo/loyaltyengine/internal/config"
	"github.com/polkiloo/loyaltyengine/internal/notify"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewPurchaseUseCase,
	NewLoyaltyUseCase,
	func(g *catalog.Gateway) RewardCatalog { return g },
	func(d *notify.Dispatcher) Notifier { return d },
	func(cfg *config.Config) LoyaltyOptions {
		return LoyaltyOptions{RedemptionTimeout: cfg.RedemptionTimeout, DiscountRate: cfg.DiscountRate}
	},
)
