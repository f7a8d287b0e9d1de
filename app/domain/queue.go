package domain

import "context"

// ProductQueueName is the shared list every producer pushes to and every worker pops from.
const ProductQueueName = "product_queue"

// QueueTransport is a shared FIFO list. Pop removes the head atomically and
// returns ErrQueueEmpty when there is nothing to take.
type QueueTransport interface {
	Push(ctx context.Context, queue string, payload []byte) error
	Pop(ctx context.Context, queue string) ([]byte, error)
	Ping(ctx context.Context) error
}
