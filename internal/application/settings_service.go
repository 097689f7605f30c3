package application

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/ports"

	"github.com/rs/zerolog"
)

// SettingsService handles reading and writing service configuration. Reads
// merge persisted values over hard-coded defaults so a fresh install always
// yields usable settings; writes validate and sanitize every field first.
type SettingsService struct {
	repo     ports.SettingsRepository
	registry *IntegrationRegistry
	logger   zerolog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	repo ports.SettingsRepository,
	registry *IntegrationRegistry,
	logger zerolog.Logger,
) *SettingsService {
	return &SettingsService{
		repo:     repo,
		registry: registry,
		logger:   logger,
	}
}

// IntegrationSettingsInput carries one integration's admin form state.
type IntegrationSettingsInput struct {
	Enabled bool   `json:"enabled"`
	ListID  string `json:"list_id"`
}

// SaveSettingsInput carries the admin settings form submission. Integrations
// is keyed by context; unknown contexts are rejected.
type SaveSettingsInput struct {
	APIKey         string                              `json:"api_key"`
	SendyURL       string                              `json:"sendy_url"`
	FromName       string                              `json:"from_name"`
	FromEmail      string                              `json:"from_email"`
	ReplyTo        string                              `json:"reply_to"`
	BrandID        string                              `json:"brand_id"`
	CampaignListID string                              `json:"campaign_list_id"`
	Integrations   map[string]IntegrationSettingsInput `json:"integrations"`
}

// Get returns the current settings merged with defaults for missing fields.
// Integrations whose enable flag was never stored come back enabled: a fresh
// install accepts subscriptions as soon as a list ID is configured, and only
// an explicit admin toggle turns an integration off.
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		settings = domain.DefaultSettings()
	} else {
		settings.MergeDefaults(domain.DefaultSettings())
	}

	for _, integration := range s.registry.All() {
		if _, stored := settings.Flags[integration.EnableKey]; !stored {
			settings.Flags[integration.EnableKey] = true
		}
	}

	return settings, nil
}

// Save validates, sanitizes, and persists the submitted settings. The whole
// blob is replaced; last write wins.
func (s *SettingsService) Save(ctx context.Context, input SaveSettingsInput) (*domain.Settings, error) {
	settings := &domain.Settings{
		APIKey:         strings.TrimSpace(input.APIKey),
		SendyURL:       strings.TrimRight(strings.TrimSpace(input.SendyURL), "/"),
		FromName:       strings.TrimSpace(input.FromName),
		FromEmail:      strings.TrimSpace(input.FromEmail),
		ReplyTo:        strings.TrimSpace(input.ReplyTo),
		BrandID:        strings.TrimSpace(input.BrandID),
		CampaignListID: strings.TrimSpace(input.CampaignListID),
		Flags:          map[string]bool{},
		ListIDs:        map[string]string{},
	}

	if settings.SendyURL != "" {
		parsed, err := url.Parse(settings.SendyURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return nil, fmt.Errorf("sendy_url is not a well-formed URL: %q", input.SendyURL)
		}
	}
	if settings.FromEmail != "" {
		if _, err := mail.ParseAddress(settings.FromEmail); err != nil {
			return nil, fmt.Errorf("from_email is not a valid address: %w", err)
		}
	}
	if settings.ReplyTo != "" {
		if _, err := mail.ParseAddress(settings.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply_to is not a valid address: %w", err)
		}
	}

	for context, state := range input.Integrations {
		integration, ok := s.registry.Get(context)
		if !ok {
			return nil, fmt.Errorf("unknown integration context: %q", context)
		}
		settings.Flags[integration.EnableKey] = state.Enabled
		settings.ListIDs[integration.ListIDKey] = strings.TrimSpace(state.ListID)
	}

	settings.MergeDefaults(domain.DefaultSettings())

	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save settings")
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info().Msg("Newsletter settings saved")
	return settings, nil
}
