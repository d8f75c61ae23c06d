// Package notify delivers user-facing outcome messages without ever
// blocking the caller.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// Sink delivers a notification somewhere.
type Sink interface {
	Send(ctx context.Context, n model.Notification) error
}

// Dispatcher queues notifications and fans them out to sinks from a small
// pool of workers.
type Dispatcher struct {
	sinks   []Sink
	workers int
	logger  *slog.Logger

	queue  chan model.Notification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDispatcher constructs a dispatcher with a bounded queue.
func NewDispatcher(sinks []Sink, queueSize, workers int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		sinks:   sinks,
		workers: workers,
		logger:  logger,
		queue:   make(chan model.Notification, queueSize),
	}
}

// Notify enqueues n. When the queue is full the notification is dropped.
func (d *Dispatcher) Notify(n model.Notification) {
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notification dropped",
			slog.Int64("customer_id", n.CustomerID),
			slog.String("severity", string(n.Severity)),
		)
	}
}

// Start launches delivery workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop halts the workers after delivering whatever is already queued.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case n := <-d.queue:
			d.deliver(context.Background(), n)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n model.Notification) {
	for _, sink := range d.sinks {
		if err := sink.Send(ctx, n); err != nil {
			d.logger.Error("notification delivery failed",
				slog.Int64("customer_id", n.CustomerID),
				slog.String("error", err.Error()),
			)
		}
	}
}
