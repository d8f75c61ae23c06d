package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/loyaltyengine/internal/adapter/purchases"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	testhelpers "github.com/polkiloo/loyaltyengine/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitForSettled(t *testing.T, facade *testhelpers.WorkerFacadeStub, want int, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		facade.Lock()
		n := len(facade.Settled)
		facade.Unlock()
		if n >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %d settled purchases, got %d", want, n)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestNewPurchaseProcessorDefaults(t *testing.T) {
	proc := NewPurchaseProcessor(&testhelpers.WorkerFacadeStub{}, time.Second, 0, 0, discardLogger())
	if proc.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", proc.batchSize)
	}
	if proc.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", proc.workers)
	}
}

func TestPurchaseProcessorSettlesPurchases(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{Batches: [][]model.Purchase{{{ID: 1, Number: "1"}, {ID: 2, Number: "2"}}}}
	proc := NewPurchaseProcessor(facade, 10*time.Millisecond, 2, 2, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)
	proc.Start(ctx)

	waitForSettled(t, facade, 2, time.Second)
	proc.Stop()

	facade.Lock()
	defer facade.Unlock()
	for _, call := range facade.Settled {
		if call.Verification.Status != model.VerificationStatusProcessed || !call.Verification.Amount.Equal(decimal.NewFromInt(5)) {
			t.Fatalf("unexpected settle call: %+v", call)
		}
	}
}

func TestPurchaseProcessorHandlesRateLimiting(t *testing.T) {
	attempts := int32(0)
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.Purchase{{{ID: 1, Number: "1"}}, {{ID: 1, Number: "1"}}},
		VerifyFn: func(ctx context.Context, number string) (*model.PurchaseVerification, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return nil, purchases.TooManyRequestsError{RetryAfter: 10 * time.Millisecond}
			}
			return &model.PurchaseVerification{Number: number, Status: model.VerificationStatusInvalid}, nil
		},
	}

	proc := NewPurchaseProcessor(facade, 5*time.Millisecond, 1, 1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)

	waitForSettled(t, facade, 1, time.Second)
	proc.Stop()

	if atomic.LoadInt32(&attempts) < 2 {
		t.Fatalf("expected retry after rate limit, got %d attempts", attempts)
	}
}

func TestPurchaseProcessorSkipsFailedVerification(t *testing.T) {
	calls := int32(0)
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.Purchase{{{ID: 1, Number: "1"}, {ID: 2, Number: "2"}}},
		VerifyFn: func(ctx context.Context, number string) (*model.PurchaseVerification, error) {
			atomic.AddInt32(&calls, 1)
			if number == "1" {
				return nil, purchases.ErrPurchaseNotRegistered
			}
			return nil, errors.New("connection refused")
		},
	}

	proc := NewPurchaseProcessor(facade, 5*time.Millisecond, 2, 1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&calls) < 2 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for verification attempts")
		case <-time.After(5 * time.Millisecond):
		}
	}
	proc.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Settled) != 0 {
		t.Fatalf("failed verifications must not settle: %+v", facade.Settled)
	}
}

func TestPurchaseProcessorStopsOnContextCancel(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{
		BatchFn: func(context.Context, int) ([]model.Purchase, error) { return nil, errors.New("db down") },
	}
	proc := NewPurchaseProcessor(facade, time.Millisecond, 1, 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	proc.Start(ctx)
	time.Sleep(10 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		proc.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop")
	}
}

func TestPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	pause(ctx, time.Second)
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("pause must return when context is done")
	}
}
