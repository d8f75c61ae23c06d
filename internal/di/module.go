package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/loyaltyengine/internal/adapter/purchases"
	"github.com/polkiloo/loyaltyengine/internal/app"
	"github.com/polkiloo/loyaltyengine/internal/catalog"
	"github.com/polkiloo/loyaltyengine/internal/config"
	"github.com/polkiloo/loyaltyengine/internal/logger"
	"github.com/polkiloo/loyaltyengine/internal/notify"
	"github.com/polkiloo/loyaltyengine/internal/pkg/auth"
	"github.com/polkiloo/loyaltyengine/internal/server/http/handlers"
	"github.com/polkiloo/loyaltyengine/internal/server/http/router"
	"github.com/polkiloo/loyaltyengine/internal/storage/postgres"
	"github.com/polkiloo/loyaltyengine/internal/usecase"
)

// Module assembles the whole application graph. Extra options are appended
// last so callers can replace any component.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		purchases.Module,
		catalog.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(
			func(client purchases.Client) app.PurchaseVerifier { return client },
			func(f *app.LoyaltyFacade) handlers.LoyaltyFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
