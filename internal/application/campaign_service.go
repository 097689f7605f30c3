package application

import (
	"context"
	"errors"
	"fmt"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ErrNewsletterNotFound is returned when the referenced newsletter does not exist.
var ErrNewsletterNotFound = errors.New("newsletter not found")

// ErrCampaignListNotConfigured is returned when no campaign list ID is set.
var ErrCampaignListNotConfigured = errors.New("campaign list not configured")

// PublishOutcome reports what a campaign push did upstream.
type PublishOutcome struct {
	CampaignID string `json:"campaign_id"`
	Created    bool   `json:"created"`
}

// CampaignService publishes newsletters as Sendy campaigns: it renders the
// email, checks whether a campaign already exists upstream, then creates or
// updates it. Failures surface as errors; the editorial caller re-triggers
// manually, no retry logic exists here.
type CampaignService struct {
	newsletters ports.NewsletterRepository
	renderer    *EmailRenderer
	settings    *SettingsService
	client      ports.SendyClient
	logger      zerolog.Logger
}

// NewCampaignService creates a new campaign service.
func NewCampaignService(
	newsletters ports.NewsletterRepository,
	renderer *EmailRenderer,
	settings *SettingsService,
	client ports.SendyClient,
	logger zerolog.Logger,
) *CampaignService {
	return &CampaignService{
		newsletters: newsletters,
		renderer:    renderer,
		settings:    settings,
		client:      client,
		logger:      logger,
	}
}

// Publish creates or updates the Sendy campaign for a newsletter. A newly
// allocated campaign ID is persisted against the newsletter so subsequent
// pushes update in place.
func (s *CampaignService) Publish(ctx context.Context, newsletterID string) (*PublishOutcome, error) {
	newsletter, err := s.newsletters.GetByID(ctx, newsletterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load newsletter: %w", err)
	}
	if newsletter == nil {
		return nil, ErrNewsletterNotFound
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.CampaignListID == "" {
		return nil, ErrCampaignListNotConfigured
	}

	email := s.renderer.Render(newsletter)

	exists := false
	if newsletter.CampaignID != "" {
		exists, err = s.client.CampaignExists(ctx, settings.API(), newsletter.CampaignID)
		if err != nil {
			s.logger.Error().Err(err).Str("newsletter_id", newsletterID).Msg("Sendy campaign status check failed")
			return nil, fmt.Errorf("failed to check campaign status: %w", err)
		}
	}

	draft := domain.CampaignDraft{
		FromName:  settings.FromName,
		FromEmail: settings.FromEmail,
		ReplyTo:   settings.ReplyTo,
		Subject:   email.Subject,
		PlainText: email.PlainText,
		HTMLText:  email.HTMLBody,
		ListIDs:   settings.CampaignListID,
		BrandID:   settings.BrandID,
	}

	if exists {
		if err := s.client.UpdateCampaign(ctx, settings.API(), newsletter.CampaignID, draft); err != nil {
			s.logger.Error().Err(err).Str("newsletter_id", newsletterID).Msg("Sendy campaign update failed")
			return nil, fmt.Errorf("failed to update campaign: %w", err)
		}
		s.logger.Info().
			Str("newsletter_id", newsletterID).
			Str("campaign_id", newsletter.CampaignID).
			Msg("Updated Sendy campaign")
		return &PublishOutcome{CampaignID: newsletter.CampaignID, Created: false}, nil
	}

	campaignID, err := s.client.CreateCampaign(ctx, settings.API(), draft)
	if err != nil {
		s.logger.Error().Err(err).Str("newsletter_id", newsletterID).Msg("Sendy campaign create failed")
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	if err := s.newsletters.SetCampaignID(ctx, newsletterID, campaignID); err != nil {
		// The campaign exists upstream; losing the ID means the next push
		// creates a duplicate, so this is a real failure.
		s.logger.Error().Err(err).Str("newsletter_id", newsletterID).Str("campaign_id", campaignID).
			Msg("Failed to persist campaign ID")
		return nil, fmt.Errorf("campaign created but ID could not be persisted: %w", err)
	}

	s.logger.Info().
		Str("newsletter_id", newsletterID).
		Str("campaign_id", campaignID).
		Msg("Created Sendy campaign")
	return &PublishOutcome{CampaignID: campaignID, Created: true}, nil
}
