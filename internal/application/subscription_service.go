package application

import (
	"context"
	"fmt"
	"time"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/ports"

	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// SubscriptionService bridges subscription requests to the Sendy API. Every
// expected failure mode comes back as a typed SubscriptionResult; no error
// escapes to the form-submission boundary.
type SubscriptionService struct {
	registry *IntegrationRegistry
	settings *SettingsService
	client   ports.SendyClient
	events   ports.EventPublisher
	logger   zerolog.Logger
}

// NewSubscriptionService creates a new subscription service. events may be
// nil when no notification fan-out is configured.
func NewSubscriptionService(
	registry *IntegrationRegistry,
	settings *SettingsService,
	client ports.SendyClient,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		registry: registry,
		settings: settings,
		client:   client,
		events:   events,
		logger:   logger,
	}
}

// Subscribe resolves the integration for subscriptionContext, checks its
// enabled state and list configuration, validates the email, and issues the
// upstream subscribe call. The email check runs before any network call.
func (s *SubscriptionService) Subscribe(ctx context.Context, email, subscriptionContext string) domain.SubscriptionResult {
	integration, ok := s.registry.Get(subscriptionContext)
	if !ok {
		return domain.ResultFor(domain.StatusNotFound)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("context", subscriptionContext).Msg("Failed to load settings for subscription")
		return domain.ResultFor(domain.StatusError)
	}

	if !settings.FlagEnabled(integration.EnableKey) {
		return domain.ResultFor(domain.StatusDisabled)
	}

	listID := settings.ListID(integration.ListIDKey)
	if listID == "" {
		s.logger.Warn().Str("context", subscriptionContext).Msg("Subscription attempted against unconfigured list")
		return domain.ErrorResult("Newsletter list not configured for this integration")
	}

	if !domain.ValidEmail(email) {
		return domain.ResultFor(domain.StatusInvalid)
	}

	status, err := s.client.Subscribe(ctx, settings.API(), listID, email)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("context", subscriptionContext).
			Str("list_id", listID).
			Msg("Sendy subscribe request failed")
		return domain.ResultFor(domain.StatusError)
	}

	if status != domain.StatusSubscribed {
		s.logger.Info().
			Str("context", subscriptionContext).
			Str("status", string(status)).
			Msg("Sendy rejected subscription")
		return domain.ResultFor(status)
	}

	s.notifySubscribed(email, subscriptionContext, listID)
	return domain.ResultFor(domain.StatusSubscribed)
}

// notifySubscribed emits the subscriber event without blocking or failing the
// subscription result.
func (s *SubscriptionService) notifySubscribed(email, subscriptionContext, listID string) {
	if s.events == nil {
		return
	}
	event := &domain.SubscriberEvent{
		Email:      email,
		Context:    subscriptionContext,
		ListID:     listID,
		OccurredAt: time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.events.PublishSubscribed(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("context", subscriptionContext).Msg("Failed to publish subscriber event")
		}
	}()
}

// IntegrationStats reports the active subscriber count for one integration's
// configured list.
type IntegrationStats struct {
	Context         string `json:"context"`
	ListID          string `json:"list_id"`
	SubscriberCount int    `json:"subscriber_count"`
}

// Stats fetches the active subscriber count for the integration's list.
func (s *SubscriptionService) Stats(ctx context.Context, subscriptionContext string) (*IntegrationStats, error) {
	integration, ok := s.registry.Get(subscriptionContext)
	if !ok {
		return nil, fmt.Errorf("integration not found: %q", subscriptionContext)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	listID := settings.ListID(integration.ListIDKey)
	if listID == "" {
		return nil, fmt.Errorf("list not configured for integration %q", subscriptionContext)
	}

	count, err := s.client.SubscriberCount(ctx, settings.API(), listID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscriber count: %w", err)
	}

	return &IntegrationStats{
		Context:         subscriptionContext,
		ListID:          listID,
		SubscriberCount: count,
	}, nil
}
