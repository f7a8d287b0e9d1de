package usecase

import (
	"context"
	"fmt"
	"inventory-service/app/domain"
	"log/slog"
	"time"
)

const unknownProductName = "Unknown"

type stockNotifier struct {
	channel   *slog.Logger
	publisher domain.NotificationPublisher
	now       func() time.Time
}

// NewStockNotifier records low-stock alerts on the product_notifications
// channel and, when publisher is non-nil, forwards them to the company's
// notification subject.
func NewStockNotifier(channel *slog.Logger, publisher domain.NotificationPublisher) domain.Notifier {
	return &stockNotifier{channel: channel, publisher: publisher, now: time.Now}
}

func (n *stockNotifier) Notify(ctx context.Context, event domain.StockCheckEvent) error {
	if !event.Complete() {
		return fmt.Errorf("%w: missing quantity, minimum_quantity or company_id", domain.ErrMalformedEvent)
	}

	notification := BuildNotification(event, n.now())

	n.channel.InfoContext(ctx, notification.Message,
		"company_id", notification.CompanyID,
		"product", notification.ProductName,
		"quantity", notification.Quantity,
		"minimum_quantity", notification.MinimumQuantity,
	)

	if n.publisher == nil {
		return nil
	}
	if err := n.publisher.PublishLowStock(ctx, notification); err != nil {
		return fmt.Errorf("publish low stock for company %d: %w", notification.CompanyID, err)
	}
	return nil
}

// BuildNotification expects a complete event.
func BuildNotification(event domain.StockCheckEvent, at time.Time) domain.Notification {
	name := event.Name
	if name == "" {
		name = unknownProductName
	}
	return domain.Notification{
		CompanyID:       *event.CompanyID,
		ProductName:     name,
		Quantity:        *event.Quantity,
		MinimumQuantity: *event.MinimumQuantity,
		Message: fmt.Sprintf("Product %s of company %d has quantity (%d) less than or equal to the minimum (%d).",
			name, *event.CompanyID, *event.Quantity, *event.MinimumQuantity),
		CreatedAt: at.UTC(),
	}
}
