package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"inventory-service/app/domain"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type productCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewProductCache(client redis.Cmdable, ttl time.Duration) domain.ProductCache {
	return &productCache{client: client, ttl: ttl}
}

func listKey(companyID int64) string {
	return fmt.Sprintf("products:company:%d", companyID)
}

func productKey(companyID, productID int64) string {
	return fmt.Sprintf("products:company:%d:product:%d", companyID, productID)
}

func (c *productCache) GetList(ctx context.Context, companyID int64) ([]domain.Product, bool, error) {
	var products []domain.Product
	ok, err := c.get(ctx, listKey(companyID), &products)
	return products, ok, err
}

func (c *productCache) SetList(ctx context.Context, companyID int64, products []domain.Product) error {
	return c.set(ctx, listKey(companyID), products)
}

func (c *productCache) Get(ctx context.Context, companyID, id int64) (domain.Product, bool, error) {
	var product domain.Product
	ok, err := c.get(ctx, productKey(companyID, id), &product)
	return product, ok, err
}

func (c *productCache) Set(ctx context.Context, product domain.Product) error {
	return c.set(ctx, productKey(product.CompanyID, product.ID), product)
}

func (c *productCache) Invalidate(ctx context.Context, companyID int64, productID *int64) error {
	keys := []string{listKey(companyID)}
	if productID != nil {
		keys = append(keys, productKey(companyID, *productID))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.ErrorContext(ctx, "[productCache] Invalidate", "del", err)
		return err
	}
	return nil
}

func (c *productCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		slog.ErrorContext(ctx, "[productCache] get", "key", key, "error", err)
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "[productCache] get", "key", key, "unmarshal", err)
		return false, nil
	}
	return true, nil
}

func (c *productCache) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.ErrorContext(ctx, "[productCache] set", "key", key, "error", err)
		return err
	}
	return nil
}
