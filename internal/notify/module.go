package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/loyaltyengine/internal/config"
)

const (
	queueSize = 256
	workers   = 2
)

// Module provides the notification dispatcher and ties it to the app lifecycle.
var Module = fx.Options(
	fx.Provide(newDispatcher),
	fx.Invoke(registerLifecycle),
)

type dispatcherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newDispatcher(p dispatcherParams) *Dispatcher {
	sinks := []Sink{NewLogSink(p.Logger)}
	if p.Config.NotifyWebhookURL != "" {
		sinks = append(sinks, NewWebhookSink(p.Config.NotifyWebhookURL))
	}
	return NewDispatcher(sinks, queueSize, workers, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, ctx context.Context, d *Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			d.Stop()
			return nil
		},
	})
}
