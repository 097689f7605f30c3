package ports

import (
	"context"

	"newsletter-sendy-layer/internal/domain"
)

// SettingsRepository defines the interface for settings persistence.
// Get returns nil when no settings have ever been saved.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}

// NewsletterRepository defines the interface for newsletter persistence.
type NewsletterRepository interface {
	Create(ctx context.Context, newsletter *domain.Newsletter) error
	GetByID(ctx context.Context, id string) (*domain.Newsletter, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Newsletter, error)
	SetCampaignID(ctx context.Context, id string, campaignID string) error
}
