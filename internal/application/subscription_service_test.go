package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-sendy-layer/internal/domain"
)

func newTestRegistry() *IntegrationRegistry {
	registry := NewIntegrationRegistry(zerolog.Nop())
	for _, integration := range DefaultIntegrations() {
		registry.Register(integration)
	}
	return registry
}

func newTestSettings() *domain.Settings {
	settings := domain.DefaultSettings()
	settings.APIKey = "test-api-key"
	settings.SendyURL = "https://mail.test/sendy"
	settings.Flags = map[string]bool{"enable_homepage": true}
	settings.ListIDs = map[string]string{"homepage_list_id": "42"}
	return settings
}

func newSubscriptionFixture(settings *domain.Settings, client *stubSendyClient) (*SubscriptionService, *stubEventPublisher) {
	registry := newTestRegistry()
	settingsService := NewSettingsService(&stubSettingsRepo{settings: settings}, registry, zerolog.Nop())
	events := newStubEventPublisher()
	service := NewSubscriptionService(registry, settingsService, client, events, zerolog.Nop())
	return service, events
}

func TestSubscribeUnknownContext(t *testing.T) {
	client := &stubSendyClient{}
	service, _ := newSubscriptionFixture(newTestSettings(), client)

	result := service.Subscribe(context.Background(), "fan@example.com", "sidebar")

	assert.False(t, result.Success)
	assert.Equal(t, domain.StatusNotFound, result.Status)
	assert.Equal(t, 0, client.subscribeCalls)
}

func TestSubscribeFreshInstall(t *testing.T) {
	// No settings ever saved: integrations are enabled by default, so the
	// attempt reaches the list check and fails on the unconfigured list,
	// never on the enable flag.
	client := &stubSendyClient{}
	service, _ := newSubscriptionFixture(nil, client)

	result := service.Subscribe(context.Background(), "fan@example.com", "homepage")

	assert.False(t, result.Success)
	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, "Newsletter list not configured for this integration", result.Message)
	assert.Equal(t, 0, client.subscribeCalls)
}

func TestSubscribeDisabledIntegration(t *testing.T) {
	settings := newTestSettings()
	settings.Flags["enable_homepage"] = false
	client := &stubSendyClient{}
	service, _ := newSubscriptionFixture(settings, client)

	result := service.Subscribe(context.Background(), "fan@example.com", "homepage")

	assert.False(t, result.Success)
	assert.Equal(t, domain.StatusDisabled, result.Status)
	assert.Equal(t, 0, client.subscribeCalls)
}

func TestSubscribeUnconfiguredList(t *testing.T) {
	settings := newTestSettings()
	settings.ListIDs["homepage_list_id"] = ""
	client := &stubSendyClient{}
	service, _ := newSubscriptionFixture(settings, client)

	result := service.Subscribe(context.Background(), "fan@example.com", "homepage")

	assert.False(t, result.Success)
	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, "Newsletter list not configured for this integration", result.Message)
	assert.Equal(t, 0, client.subscribeCalls)
}

func TestSubscribeInvalidEmailSkipsUpstreamCall(t *testing.T) {
	client := &stubSendyClient{subscribeStatus: domain.StatusSubscribed}
	service, _ := newSubscriptionFixture(newTestSettings(), client)

	for _, email := range []string{"", "not-an-email", "two words@example.com", "fan@", "@example.com"} {
		result := service.Subscribe(context.Background(), email, "homepage")

		assert.False(t, result.Success, "email %q", email)
		assert.Equal(t, domain.StatusInvalid, result.Status, "email %q", email)
	}
	assert.Equal(t, 0, client.subscribeCalls)
}

func TestSubscribeSuccess(t *testing.T) {
	client := &stubSendyClient{subscribeStatus: domain.StatusSubscribed}
	service, events := newSubscriptionFixture(newTestSettings(), client)

	result := service.Subscribe(context.Background(), "fan@example.com", "homepage")

	assert.True(t, result.Success)
	assert.Equal(t, domain.StatusSubscribed, result.Status)
	assert.Equal(t, "Successfully subscribed to newsletter", result.Message)
	assert.Equal(t, 1, client.subscribeCalls)
	assert.Equal(t, "fan@example.com", client.lastEmail)
	assert.Equal(t, "42", client.lastListID)
	assert.Equal(t, "test-api-key", client.lastConfig.APIKey)

	select {
	case event := <-events.events:
		assert.Equal(t, "fan@example.com", event.Email)
		assert.Equal(t, "homepage", event.Context)
		assert.Equal(t, "42", event.ListID)
		assert.False(t, event.OccurredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("subscriber event was never published")
	}
}

func TestSubscribeAlreadySubscribed(t *testing.T) {
	client := &stubSendyClient{subscribeStatus: domain.StatusAlreadySubscribed}
	service, events := newSubscriptionFixture(newTestSettings(), client)

	result := service.Subscribe(context.Background(), "fan@example.com", "homepage")

	assert.False(t, result.Success)
	assert.Equal(t, domain.StatusAlreadySubscribed, result.Status)
	assert.Empty(t, events.events, "no event expected for rejected subscription")
}

func TestSubscribeUpstreamFailure(t *testing.T) {
	client := &stubSendyClient{subscribeStatus: domain.StatusFailed}
	service, _ := newSubscriptionFixture(newTestSettings(), client)

	result := service.Subscribe(context.Background(), "fan@example.com", "homepage")

	assert.False(t, result.Success)
	assert.Equal(t, domain.StatusFailed, result.Status)
}

func TestSubscribeTransportError(t *testing.T) {
	client := &stubSendyClient{subscribeErr: errors.New("connection refused")}
	service, _ := newSubscriptionFixture(newTestSettings(), client)

	result := service.Subscribe(context.Background(), "fan@example.com", "homepage")

	assert.False(t, result.Success)
	assert.Equal(t, domain.StatusError, result.Status)
}

func TestStats(t *testing.T) {
	client := &stubSendyClient{count: 1500}
	service, _ := newSubscriptionFixture(newTestSettings(), client)

	stats, err := service.Stats(context.Background(), "homepage")

	require.NoError(t, err)
	assert.Equal(t, "homepage", stats.Context)
	assert.Equal(t, "42", stats.ListID)
	assert.Equal(t, 1500, stats.SubscriberCount)
}

func TestStatsUnknownContext(t *testing.T) {
	service, _ := newSubscriptionFixture(newTestSettings(), &stubSendyClient{})

	_, err := service.Stats(context.Background(), "sidebar")

	assert.Error(t, err)
}
