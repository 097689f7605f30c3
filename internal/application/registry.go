package application

import (
	"newsletter-sendy-layer/internal/domain"

	"github.com/rs/zerolog"
)

// IntegrationRegistry maps subscription contexts to their descriptors.
// Registration happens once, single-threaded, during startup; afterwards the
// registry is read-only, so no locking is needed.
type IntegrationRegistry struct {
	integrations map[string]domain.Integration
	logger       zerolog.Logger
}

// NewIntegrationRegistry creates an empty integration registry.
func NewIntegrationRegistry(logger zerolog.Logger) *IntegrationRegistry {
	return &IntegrationRegistry{
		integrations: make(map[string]domain.Integration),
		logger:       logger,
	}
}

// Register adds or overwrites the integration for its context.
func (r *IntegrationRegistry) Register(integration domain.Integration) {
	if _, exists := r.integrations[integration.Context]; exists {
		r.logger.Warn().
			Str("context", integration.Context).
			Msg("Overwriting existing integration registration")
	}
	r.integrations[integration.Context] = integration
}

// Get returns the integration registered for context.
func (r *IntegrationRegistry) Get(context string) (domain.Integration, bool) {
	integration, ok := r.integrations[context]
	return integration, ok
}

// All returns a copy of the full context-to-integration mapping.
func (r *IntegrationRegistry) All() map[string]domain.Integration {
	out := make(map[string]domain.Integration, len(r.integrations))
	for k, v := range r.integrations {
		out[k] = v
	}
	return out
}

// DefaultIntegrations returns the built-in subscription entry points.
// Collaborating services may register additional ones at startup.
func DefaultIntegrations() []domain.Integration {
	return []domain.Integration{
		{
			Context:     "navigation",
			Label:       "Navigation Menu Form",
			Description: "Newsletter subscription in site navigation",
			EnableKey:   "enable_navigation",
			ListIDKey:   "navigation_list_id",
		},
		{
			Context:     "homepage",
			Label:       "Homepage Newsletter Form",
			Description: "Main homepage subscription form",
			EnableKey:   "enable_homepage",
			ListIDKey:   "homepage_list_id",
		},
		{
			Context:     "archive",
			Label:       "Archive Page Form",
			Description: "Newsletter archive page subscription",
			EnableKey:   "enable_archive",
			ListIDKey:   "archive_list_id",
		},
		{
			Context:     "content",
			Label:       "Content Form",
			Description: "Newsletter form after post content",
			EnableKey:   "enable_content",
			ListIDKey:   "content_list_id",
		},
	}
}
