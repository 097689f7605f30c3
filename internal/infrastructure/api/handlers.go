package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"newsletter-sendy-layer/internal/application"
	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/infrastructure/metrics"
	"newsletter-sendy-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const defaultRecentLimit = 3

// Handler exposes the service's REST surface: the canonical subscription
// endpoint, admin settings, integrations, newsletters, and campaign pushes.
type Handler struct {
	subscriptions *application.SubscriptionService
	campaigns     *application.CampaignService
	settings      *application.SettingsService
	registry      *application.IntegrationRegistry
	newsletters   ports.NewsletterRepository
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewHandler creates the REST handler.
func NewHandler(
	subscriptions *application.SubscriptionService,
	campaigns *application.CampaignService,
	settings *application.SettingsService,
	registry *application.IntegrationRegistry,
	newsletters ports.NewsletterRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		subscriptions: subscriptions,
		campaigns:     campaigns,
		settings:      settings,
		registry:      registry,
		newsletters:   newsletters,
		metrics:       m,
		logger:        logger,
	}
}

// Routes mounts every endpoint under the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/subscribe", h.Subscribe)

	r.Get("/integrations", h.ListIntegrations)
	r.Get("/integrations/{context}/stats", h.IntegrationStats)

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	r.Post("/newsletters", h.CreateNewsletter)
	r.Get("/newsletters", h.ListNewsletters)
	r.Get("/newsletters/{id}", h.GetNewsletter)
	r.Post("/newsletters/{id}/campaign", h.PushCampaign)
}

type subscribeRequest struct {
	Email   string `json:"email"`
	Context string `json:"context"`
}

// Subscribe handles the single canonical form-submission endpoint. Every
// expected failure mode comes back as a JSON body with success=false; HTTP
// errors are reserved for malformed requests.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Context == "" {
		writeError(w, http.StatusBadRequest, "context is required")
		return
	}

	result := h.subscriptions.Subscribe(r.Context(), req.Email, req.Context)

	// Only registered contexts become label values; anything the client made
	// up is collapsed so the metric's cardinality stays bounded.
	metricContext := req.Context
	if _, registered := h.registry.Get(req.Context); !registered {
		metricContext = "unknown"
	}
	h.metrics.RecordSubscription(metricContext, string(result.Status))

	writeJSON(w, http.StatusOK, result)
}

type integrationView struct {
	domain.Integration
	Enabled bool   `json:"enabled"`
	ListID  string `json:"list_id"`
}

// ListIntegrations returns the registered integrations merged with their
// configured state, for the admin settings surface.
func (h *Handler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load settings")
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	views := make(map[string]integrationView)
	for context, integration := range h.registry.All() {
		views[context] = integrationView{
			Integration: integration,
			Enabled:     settings.FlagEnabled(integration.EnableKey),
			ListID:      settings.ListID(integration.ListIDKey),
		}
	}

	writeJSON(w, http.StatusOK, views)
}

// IntegrationStats reports the active subscriber count for one integration.
func (h *Handler) IntegrationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.subscriptions.Stats(r.Context(), chi.URLParam(r, "context"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to retrieve integration stats")
		writeError(w, http.StatusBadGateway, "failed to retrieve subscription stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// GetSettings returns the current settings merged with defaults.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load settings")
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings validates and persists the admin settings form.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input application.SaveSettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settings.Save(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

type createNewsletterRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreateNewsletter stores a new newsletter draft.
func (h *Handler) CreateNewsletter(w http.ResponseWriter, r *http.Request) {
	var req createNewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	newsletter := &domain.Newsletter{Title: req.Title, Content: req.Content}
	if err := h.newsletters.Create(r.Context(), newsletter); err != nil {
		h.logger.Error().Err(err).Msg("Failed to create newsletter")
		writeError(w, http.StatusInternalServerError, "failed to create newsletter")
		return
	}

	writeJSON(w, http.StatusCreated, newsletter)
}

// ListNewsletters returns the most recent newsletters.
func (h *Handler) ListNewsletters(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	newsletters, err := h.newsletters.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list newsletters")
		writeError(w, http.StatusInternalServerError, "failed to list newsletters")
		return
	}
	if newsletters == nil {
		newsletters = []*domain.Newsletter{}
	}

	writeJSON(w, http.StatusOK, newsletters)
}

// GetNewsletter returns one newsletter by ID.
func (h *Handler) GetNewsletter(w http.ResponseWriter, r *http.Request) {
	newsletter, err := h.newsletters.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get newsletter")
		writeError(w, http.StatusInternalServerError, "failed to get newsletter")
		return
	}
	if newsletter == nil {
		writeError(w, http.StatusNotFound, "newsletter not found")
		return
	}

	writeJSON(w, http.StatusOK, newsletter)
}

// PushCampaign renders the newsletter and creates or updates its Sendy
// campaign.
func (h *Handler) PushCampaign(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.campaigns.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.metrics.RecordCampaignPush("failed")
		switch {
		case errors.Is(err, application.ErrNewsletterNotFound):
			writeError(w, http.StatusNotFound, "newsletter not found")
		case errors.Is(err, application.ErrCampaignListNotConfigured):
			writeError(w, http.StatusUnprocessableEntity, "campaign list not configured")
		default:
			h.logger.Error().Err(err).Msg("Campaign push failed")
			writeError(w, http.StatusBadGateway, "failed to push campaign")
		}
		return
	}

	if outcome.Created {
		h.metrics.RecordCampaignPush("created")
	} else {
		h.metrics.RecordCampaignPush("updated")
	}

	writeJSON(w, http.StatusOK, outcome)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
