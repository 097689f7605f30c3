package ports

import (
	"context"

	"newsletter-sendy-layer/internal/domain"
)

// SendyClient defines the interface for Sendy API operations. Every method
// takes the connection info per call because the admin can change the API key
// or base URL at any time.
//
// Subscribe returns the classified outcome of the upstream plain-text
// response; the error return covers transport failures only.
type SendyClient interface {
	Subscribe(ctx context.Context, cfg domain.APIConfig, listID string, email string) (domain.SubscriptionStatus, error)

	CampaignExists(ctx context.Context, cfg domain.APIConfig, campaignID string) (bool, error)
	CreateCampaign(ctx context.Context, cfg domain.APIConfig, draft domain.CampaignDraft) (string, error)
	UpdateCampaign(ctx context.Context, cfg domain.APIConfig, campaignID string, draft domain.CampaignDraft) error

	SubscriberCount(ctx context.Context, cfg domain.APIConfig, listID string) (int, error)
}
