package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-sendy-layer/internal/domain"
)

func testEvent(subscriptionContext string) *domain.SubscriberEvent {
	return &domain.SubscriberEvent{
		Email:      "fan@example.com",
		Context:    subscriptionContext,
		ListID:     "42",
		OccurredAt: time.Now().UTC(),
	}
}

func receive(t *testing.T, ch *SubscriberEventChannel) *domain.SubscriberEvent {
	t.Helper()
	select {
	case event := <-ch.Events:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPubSubDeliversToAllChannels(t *testing.T) {
	ps := NewSubscriberPubSub(zerolog.Nop())

	first := ps.Subscribe(context.Background(), nil)
	second := ps.Subscribe(context.Background(), nil)
	require.Equal(t, 2, ps.ActiveChannels())

	require.NoError(t, ps.PublishSubscribed(context.Background(), testEvent("homepage")))

	assert.Equal(t, "homepage", receive(t, first).Context)
	assert.Equal(t, "homepage", receive(t, second).Context)
}

func TestPubSubFiltersByContext(t *testing.T) {
	ps := NewSubscriberPubSub(zerolog.Nop())

	filtered := ps.Subscribe(context.Background(), &SubscriberEventFilter{Contexts: []string{"archive"}})

	require.NoError(t, ps.PublishSubscribed(context.Background(), testEvent("homepage")))
	require.NoError(t, ps.PublishSubscribed(context.Background(), testEvent("archive")))

	event := receive(t, filtered)
	assert.Equal(t, "archive", event.Context)
	assert.Empty(t, filtered.Events)
}

func TestPubSubUnsubscribe(t *testing.T) {
	ps := NewSubscriberPubSub(zerolog.Nop())

	channel := ps.Subscribe(context.Background(), nil)
	ps.Unsubscribe(channel.ID)

	assert.Equal(t, 0, ps.ActiveChannels())
	select {
	case <-channel.Done:
	default:
		t.Fatal("done channel should be closed after unsubscribe")
	}

	// Publishing after unsubscribe is a no-op.
	require.NoError(t, ps.PublishSubscribed(context.Background(), testEvent("homepage")))
}

func TestPubSubUnsubscribeOnContextCancel(t *testing.T) {
	ps := NewSubscriberPubSub(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	channel := ps.Subscribe(ctx, nil)
	cancel()

	select {
	case <-channel.Done:
	case <-time.After(time.Second):
		t.Fatal("channel was not torn down after context cancel")
	}
	assert.Equal(t, 0, ps.ActiveChannels())
}

func TestPubSubDropsWhenBufferFull(t *testing.T) {
	ps := NewSubscriberPubSub(zerolog.Nop())
	channel := ps.Subscribe(context.Background(), nil)

	for i := 0; i < cap(channel.Events)+5; i++ {
		require.NoError(t, ps.PublishSubscribed(context.Background(), testEvent("homepage")))
	}

	assert.Len(t, channel.Events, cap(channel.Events))
}
