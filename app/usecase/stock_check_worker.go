package usecase

import (
	"context"
	"errors"
	"fmt"
	"inventory-service/app/domain"
	"inventory-service/config"
	"inventory-service/pkg/ctxutil"
	"log/slog"
	"sync"
	"time"
)

// StockCheckWorkerPool drains ProductQueueName with a fixed number of
// independent workers. Workers share nothing but the transport.
type StockCheckWorkerPool struct {
	transport     domain.QueueTransport
	notifier      domain.Notifier
	workers       int
	pollInterval  time.Duration
	notifyTimeout time.Duration
}

func NewStockCheckWorkerPool(transport domain.QueueTransport, notifier domain.Notifier, queueCfg config.QueueConfig, notifierCfg config.NotifierConfig) *StockCheckWorkerPool {
	workers := queueCfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	pollInterval := queueCfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &StockCheckWorkerPool{
		transport:     transport,
		notifier:      notifier,
		workers:       workers,
		pollInterval:  pollInterval,
		notifyTimeout: notifierCfg.Timeout,
	}
}

// Run checks that the transport is reachable, starts the workers and blocks
// until ctx is cancelled and every worker has finished its current iteration.
func (p *StockCheckWorkerPool) Run(ctx context.Context) error {
	if err := p.transport.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "[stockCheckWorkerPool] Run", "ping", err)
		return fmt.Errorf("queue transport unreachable: %w", err)
	}

	slog.InfoContext(ctx, "[stockCheckWorkerPool] Run", "workers", p.workers, "poll_interval", p.pollInterval)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.work(ctxutil.WithWorkerID(ctx, workerID))
		}(i)
	}
	wg.Wait()

	slog.InfoContext(ctx, "[stockCheckWorkerPool] Run", "stopped", p.workers)
	return nil
}

func (p *StockCheckWorkerPool) work(ctx context.Context) {
	slog.InfoContext(ctx, "[stockCheckWorker] started")
	defer slog.InfoContext(ctx, "[stockCheckWorker] stopped")

	idle := time.NewTimer(p.pollInterval)
	defer idle.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		popped, _ := p.ProcessOne(ctx)
		if popped {
			continue
		}

		idle.Reset(p.pollInterval)
		select {
		case <-ctx.Done():
			return
		case <-idle.C:
		}
	}
}

// ProcessOne runs a single Poll, Decode, Evaluate, Notify pass. popped
// reports whether a message was taken off the queue; err is the decode or
// notify failure that was logged. A transport error counts as an empty poll.
func (p *StockCheckWorkerPool) ProcessOne(ctx context.Context) (popped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stock check panicked: %v", r)
			slog.ErrorContext(ctx, "[stockCheckWorker] ProcessOne", "recovered", err)
		}
	}()

	payload, err := p.transport.Pop(ctx, domain.ProductQueueName)
	if err != nil {
		if !errors.Is(err, domain.ErrQueueEmpty) && ctx.Err() == nil {
			slog.WarnContext(ctx, "[stockCheckWorker] ProcessOne", "pop", err)
		}
		return false, nil
	}
	popped = true

	event, err := domain.DecodeStockCheckEvent(payload)
	if err != nil {
		slog.ErrorContext(ctx, "[stockCheckWorker] ProcessOne", "decode", err, "payload", string(payload))
		return popped, err
	}

	slog.InfoContext(ctx, "[stockCheckWorker] processing", "product", event.Name)

	if !event.IsLowStock() {
		return popped, nil
	}

	// The current event always finishes, even during shutdown.
	notifyCtx := context.WithoutCancel(ctx)
	if p.notifyTimeout > 0 {
		var cancel context.CancelFunc
		notifyCtx, cancel = context.WithTimeout(notifyCtx, p.notifyTimeout)
		defer cancel()
	}

	if err := p.notifier.Notify(notifyCtx, event); err != nil {
		slog.ErrorContext(ctx, "[stockCheckWorker] ProcessOne", "notify", err, "company_id", *event.CompanyID, "product", event.Name)
		return popped, err
	}
	return popped, nil
}
