package queue

import (
	"context"
	"inventory-service/app/domain"
	"sync"
)

// MemoryTransport keeps one FIFO per queue name inside the process. It is
// used for QUEUE_DRIVER=memory and in tests.
type MemoryTransport struct {
	mu     sync.Mutex
	queues map[string][][]byte
}

var _ domain.QueueTransport = (*MemoryTransport)(nil)

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{queues: make(map[string][][]byte)}
}

func (t *MemoryTransport) Push(_ context.Context, queue string, payload []byte) error {
	buf := make([]byte, len(payload))
	copy(buf, payload)

	t.mu.Lock()
	t.queues[queue] = append(t.queues[queue], buf)
	t.mu.Unlock()
	return nil
}

func (t *MemoryTransport) Pop(_ context.Context, queue string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := t.queues[queue]
	if len(items) == 0 {
		return nil, domain.ErrQueueEmpty
	}
	head := items[0]
	items[0] = nil
	t.queues[queue] = items[1:]
	return head, nil
}

func (t *MemoryTransport) Ping(context.Context) error { return nil }

func (t *MemoryTransport) Len(queue string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queues[queue])
}
