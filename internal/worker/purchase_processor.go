package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/loyaltyengine/internal/adapter/purchases"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// Facade exposes the subset of application functionality required by the worker.
type Facade interface {
	PurchasesForProcessing(ctx context.Context, limit int) ([]model.Purchase, error)
	VerifyPurchase(ctx context.Context, number string) (*model.PurchaseVerification, error)
	SettlePurchase(ctx context.Context, purchaseID int64, v model.PurchaseVerification) (model.PurchaseStatus, error)
}

// PurchaseProcessor polls the verification system for pending purchases and
// credits earned points. Verification calls run on a fixed worker pool.
type PurchaseProcessor struct {
	facade       Facade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Purchase
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPurchaseProcessor constructs the purchase processing worker pool.
func NewPurchaseProcessor(facade Facade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PurchaseProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PurchaseProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Purchase, batchSize*workers),
	}
}

// Start launches background processing. Calling it again while running is a no-op.
func (p *PurchaseProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop cancels processing and waits for all workers to finish.
func (p *PurchaseProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PurchaseProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PurchaseProcessor) fetchAndDispatch(ctx context.Context) {
	batch, err := p.facade.PurchasesForProcessing(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch purchases for processing failed", slog.String("error", err.Error()))
		return
	}
	for _, purchase := range batch {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- purchase:
		}
	}
}

func (p *PurchaseProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case purchase, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handle(ctx, purchase)
		}
	}
}

func (p *PurchaseProcessor) handle(ctx context.Context, purchase model.Purchase) {
	verification, err := p.facade.VerifyPurchase(ctx, purchase.Number)
	if err != nil {
		var limited purchases.TooManyRequestsError
		switch {
		case errors.As(err, &limited):
			p.logger.Warn("purchase system rate limited", slog.Duration("retry_after", limited.RetryAfter))
			pause(ctx, limited.RetryAfter)
		case errors.Is(err, purchases.ErrPurchaseNotRegistered):
			pause(ctx, p.pollInterval)
		default:
			p.logger.Error("purchase verification failed", slog.String("purchase", purchase.Number), slog.String("error", err.Error()))
		}
		return
	}

	status, err := p.facade.SettlePurchase(ctx, purchase.ID, *verification)
	if err != nil {
		p.logger.Error("settle purchase failed", slog.String("purchase", purchase.Number), slog.String("error", err.Error()))
		return
	}
	if status != model.PurchaseStatusProcessing {
		p.logger.Info("purchase settled", slog.String("purchase", purchase.Number), slog.String("status", string(status)))
	}
}

// pause blocks the worker for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
