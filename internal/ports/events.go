package ports

import (
	"context"

	"newsletter-sendy-layer/internal/domain"
)

// EventPublisher defines the interface for subscriber event notification.
// Publishing is best effort; a failed publish never fails the subscription.
type EventPublisher interface {
	PublishSubscribed(ctx context.Context, event *domain.SubscriberEvent) error
}
