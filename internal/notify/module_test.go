package notify

import (
	"context"
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/loyaltyengine/internal/config"
)

func TestNewDispatcherSinks(t *testing.T) {
	d := newDispatcher(dispatcherParams{Config: &config.Config{}, Logger: discardLogger()})
	if len(d.sinks) != 1 {
		t.Fatalf("expected log sink only, got %d sinks", len(d.sinks))
	}

	d = newDispatcher(dispatcherParams{Config: &config.Config{NotifyWebhookURL: "http://example.com/hook"}, Logger: discardLogger()})
	if len(d.sinks) != 2 {
		t.Fatalf("expected log and webhook sinks, got %d", len(d.sinks))
	}
	if _, ok := d.sinks[1].(*WebhookSink); !ok {
		t.Fatalf("unexpected sink type %T", d.sinks[1])
	}
}

func TestRegisterLifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	d := NewDispatcher([]Sink{&recordingSink{}}, 1, 1, discardLogger())
	registerLifecycle(lc, context.Background(), d)

	lc.RequireStart()
	lc.RequireStop()
	if d.cancel != nil {
		t.Fatal("expected dispatcher to be stopped")
	}
}
