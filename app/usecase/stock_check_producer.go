package usecase

import (
	"context"
	"inventory-service/app/domain"
	"inventory-service/config"
	"inventory-service/pkg/ctxutil"
	"log/slog"
	"sync"
	"time"
)

type stockCheckJob struct {
	requestID string
	event     domain.StockCheckEvent
}

// StockCheckProducer hands stock-check events from the write path to the
// queue transport. Enqueue only touches a buffered channel; dispatcher
// goroutines perform the push so the caller never waits on the transport.
type StockCheckProducer struct {
	transport   domain.QueueTransport
	jobs        chan stockCheckJob
	dispatchers int
	pushTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ domain.StockCheckProducer = (*StockCheckProducer)(nil)

func NewStockCheckProducer(transport domain.QueueTransport, cfg config.QueueConfig) *StockCheckProducer {
	buffer := cfg.ProducerBuffer
	if buffer < 1 {
		buffer = 1
	}
	dispatchers := cfg.ProducerDispatchers
	if dispatchers < 1 {
		dispatchers = 1
	}
	return &StockCheckProducer{
		transport:   transport,
		jobs:        make(chan stockCheckJob, buffer),
		dispatchers: dispatchers,
		pushTimeout: 5 * time.Second,
	}
}

// Start launches the dispatchers. They run until Close.
func (p *StockCheckProducer) Start(ctx context.Context) {
	slog.InfoContext(ctx, "[stockCheckProducer] Start", "dispatchers", p.dispatchers, "buffer", cap(p.jobs))
	for i := 0; i < p.dispatchers; i++ {
		p.wg.Add(1)
		go p.dispatch(context.WithoutCancel(ctx))
	}
}

// Enqueue schedules one stock check for the committed product. It drops the
// event with a warning when the producer is closed or the buffer is full.
func (p *StockCheckProducer) Enqueue(ctx context.Context, product domain.Product) {
	job := stockCheckJob{
		requestID: ctxutil.GetRequestID(ctx),
		event:     domain.NewStockCheckEvent(product),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		slog.WarnContext(ctx, "[stockCheckProducer] Enqueue", "dropped", domain.ErrQueueClosed, "product", product.Name)
		return
	}

	select {
	case p.jobs <- job:
	default:
		slog.WarnContext(ctx, "[stockCheckProducer] Enqueue", "dropped", "buffer full", "product", product.Name)
	}
}

// Close stops intake and waits until every buffered event has been pushed.
func (p *StockCheckProducer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *StockCheckProducer) dispatch(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.push(ctx, job)
	}
}

func (p *StockCheckProducer) push(ctx context.Context, job stockCheckJob) {
	if job.requestID != "" {
		ctx = ctxutil.WithRequestID(ctx, job.requestID)
	}

	payload, err := job.event.Encode()
	if err != nil {
		slog.ErrorContext(ctx, "[stockCheckProducer] push", "encode", err)
		return
	}

	pushCtx, cancel := context.WithTimeout(ctx, p.pushTimeout)
	defer cancel()

	if err := p.transport.Push(pushCtx, domain.ProductQueueName, payload); err != nil {
		slog.WarnContext(ctx, "[stockCheckProducer] push", "transport", err, "product", job.event.Name)
		return
	}
	slog.InfoContext(ctx, "[stockCheckProducer] push", "queue", domain.ProductQueueName, "product", job.event.Name)
}
