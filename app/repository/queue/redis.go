package queue

import (
	"context"
	"errors"
	"fmt"
	"inventory-service/app/domain"
	"inventory-service/config"

	"github.com/redis/go-redis/v9"
)

type redisTransport struct {
	client redis.Cmdable
}

// NewRedisTransport backs the queue with a Redis list: RPUSH onto the tail,
// LPOP from the head. LPOP is atomic on the server so concurrent poppers never
// see the same payload.
func NewRedisTransport(client redis.Cmdable) domain.QueueTransport {
	return &redisTransport{client: client}
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func (t *redisTransport) Push(ctx context.Context, queue string, payload []byte) error {
	if err := t.client.RPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: rpush %s: %w", queue, err)
	}
	return nil
}

func (t *redisTransport) Pop(ctx context.Context, queue string) ([]byte, error) {
	payload, err := t.client.LPop(ctx, queue).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrQueueEmpty
		}
		return nil, fmt.Errorf("queue/redis: lpop %s: %w", queue, err)
	}
	return payload, nil
}

func (t *redisTransport) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}
