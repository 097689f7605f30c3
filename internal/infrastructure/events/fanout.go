package events

import (
	"context"
	"errors"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/ports"
)

// Fanout publishes each event to every configured publisher and joins the
// failures. A broker outage never hides the in-process delivery (or vice
// versa).
type Fanout struct {
	publishers []ports.EventPublisher
}

// NewFanout creates a fan-out publisher.
func NewFanout(publishers ...ports.EventPublisher) *Fanout {
	return &Fanout{publishers: publishers}
}

// PublishSubscribed implements ports.EventPublisher.
func (f *Fanout) PublishSubscribed(ctx context.Context, event *domain.SubscriberEvent) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.PublishSubscribed(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ ports.EventPublisher = (*Fanout)(nil)
