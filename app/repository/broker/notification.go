package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"inventory-service/app/domain"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

type notificationBroker struct {
	js     jetstream.JetStream
	prefix string
}

// NewNotificationPublisher publishes low-stock notifications to
// <stream>.company.<company_id> so consumers can subscribe per tenant.
func NewNotificationPublisher(stream jetstream.JetStream, streamName string) domain.NotificationPublisher {
	return &notificationBroker{
		js:     stream,
		prefix: strings.ToLower(streamName),
	}
}

// EnsureNotificationStream creates the durable stream backing the
// notification subjects if it does not exist yet.
func EnsureNotificationStream(ctx context.Context, js jetstream.JetStream, streamName string) error {
	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     strings.ToUpper(streamName),
		Subjects: []string{fmt.Sprintf("%s.>", strings.ToLower(streamName))},
		Storage:  jetstream.FileStorage,
	})
	if err != nil && !errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
		return err
	}
	return nil
}

func (b *notificationBroker) Subject(companyID int64) string {
	return fmt.Sprintf("%s.company.%d", b.prefix, companyID)
}

func (b *notificationBroker) PublishLowStock(ctx context.Context, n domain.Notification) error {
	msg, err := json.Marshal(n)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationBroker] PublishLowStock", "json.Marshal", err)
		return err
	}

	subject := b.Subject(n.CompanyID)
	if _, err = b.js.Publish(ctx, subject, msg); err != nil {
		slog.ErrorContext(ctx, "[notificationBroker] PublishLowStock", "Publish", err, "subject", subject)
		return err
	}

	slog.InfoContext(ctx, "[notificationBroker] PublishLowStock", "subject", subject)
	return nil
}
