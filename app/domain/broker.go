package domain

import (
	"context"
	"time"
)

type Notification struct {
	CompanyID       int64     `json:"company_id"`
	ProductName     string    `json:"product_name"`
	Quantity        int64     `json:"quantity"`
	MinimumQuantity int64     `json:"minimum_quantity"`
	Message         string    `json:"message"`
	CreatedAt       time.Time `json:"created_at"`
}

type NotificationPublisher interface {
	PublishLowStock(ctx context.Context, n Notification) error
}
