package purchases

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/loyaltyengine/internal/config"
)

// Module exposes the purchase verification client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PurchaseSystemAddress, p.Logger)
}
