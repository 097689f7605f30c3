package events

import (
	"context"
	"fmt"
	"sync"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/ports"

	"github.com/rs/zerolog"
)

// SubscriberEventChannel represents one in-process subscription.
type SubscriberEventChannel struct {
	ID     string
	Filter *SubscriberEventFilter
	Events chan *domain.SubscriberEvent
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// SubscriberEventFilter filters subscriber events.
type SubscriberEventFilter struct {
	Contexts []string // Filter by integration contexts
}

// SubscriberPubSub fans subscriber events out to in-process consumers
// (audit logging, admin dashboards). Delivery is non-blocking: a consumer
// with a full buffer misses the event rather than stalling the publisher.
type SubscriberPubSub struct {
	mu       sync.RWMutex
	channels map[string]*SubscriberEventChannel
	logger   zerolog.Logger
	nextID   int64
	idMu     sync.Mutex
}

// NewSubscriberPubSub creates a new subscriber pub/sub.
func NewSubscriberPubSub(logger zerolog.Logger) *SubscriberPubSub {
	return &SubscriberPubSub{
		channels: make(map[string]*SubscriberEventChannel),
		logger:   logger,
	}
}

// Subscribe creates a new subscription channel.
func (ps *SubscriberPubSub) Subscribe(ctx context.Context, filter *SubscriberEventFilter) *SubscriberEventChannel {
	ps.idMu.Lock()
	ps.nextID++
	id := fmt.Sprintf("channel-%d", ps.nextID)
	ps.idMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)

	channel := &SubscriberEventChannel{
		ID:     id,
		Filter: filter,
		Events: make(chan *domain.SubscriberEvent, 10),
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	ps.mu.Lock()
	ps.channels[id] = channel
	ps.mu.Unlock()

	ps.logger.Info().
		Str("channelId", id).
		Msg("Subscriber event channel created")

	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(id)
	}()

	return channel
}

// Unsubscribe removes a subscription channel.
func (ps *SubscriberPubSub) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	close(channel.Done)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Info().
		Str("channelId", channelID).
		Msg("Subscriber event channel removed")
}

// PublishSubscribed implements ports.EventPublisher by broadcasting to all
// matching channels.
func (ps *SubscriberPubSub) PublishSubscribed(_ context.Context, event *domain.SubscriberEvent) error {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, channel := range ps.channels {
		if !matchesFilter(event, channel.Filter) {
			continue
		}
		select {
		case channel.Events <- event:
		case <-channel.ctx.Done():
		default:
			ps.logger.Warn().
				Str("channelId", channel.ID).
				Msg("Channel buffer full, dropping event")
		}
	}

	return nil
}

func matchesFilter(event *domain.SubscriberEvent, filter *SubscriberEventFilter) bool {
	if filter == nil || len(filter.Contexts) == 0 {
		return true
	}
	for _, c := range filter.Contexts {
		if event.Context == c {
			return true
		}
	}
	return false
}

// ActiveChannels returns the number of live subscriptions.
func (ps *SubscriberPubSub) ActiveChannels() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.channels)
}

var _ ports.EventPublisher = (*SubscriberPubSub)(nil)
