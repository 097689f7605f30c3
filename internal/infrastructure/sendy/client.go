package sendy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/infrastructure/metrics"
	"newsletter-sendy-layer/internal/ports"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every outbound Sendy call.
const DefaultTimeout = 30 * time.Second

const (
	subscribePath       = "/subscribe"
	campaignStatusPath  = "/api/campaigns/status.php"
	campaignCreatePath  = "/api/campaigns/create.php"
	campaignUpdatePath  = "/api/campaigns/update.php"
	subscriberCountPath = "/api/subscribers/active-subscriber-count.php"
)

// UpstreamError reports a Sendy response the client could not make sense of.
// The raw body is carried for server-side logging, never for end users.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("unexpected sendy response from %s: status %d, body %q", e.Endpoint, e.StatusCode, e.Body)
}

type client struct {
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewClient creates a Sendy client adapter with the default timeout.
func NewClient(logger zerolog.Logger) ports.SendyClient {
	return NewClientWithOptions(&http.Client{Timeout: DefaultTimeout}, nil, logger)
}

// NewClientWithOptions creates a client with an explicit HTTP client and
// optional metrics.
func NewClientWithOptions(httpClient *http.Client, m *metrics.Metrics, logger zerolog.Logger) ports.SendyClient {
	return &client{
		httpClient: httpClient,
		metrics:    m,
		logger:     logger,
	}
}

// postForm issues one form-encoded POST and returns the status code and the
// plain-text body. Sendy responds with text, not JSON, on every endpoint.
func (c *client) postForm(ctx context.Context, cfg domain.APIConfig, path string, values url.Values) (int, string, error) {
	endpoint := strings.TrimRight(cfg.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveSendyRequest(path, time.Since(start).Seconds())
	if err != nil {
		return 0, "", fmt.Errorf("sendy request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("failed to read sendy response: %w", err)
	}

	return resp.StatusCode, strings.TrimSpace(string(body)), nil
}

func (c *client) Subscribe(ctx context.Context, cfg domain.APIConfig, listID string, email string) (domain.SubscriptionStatus, error) {
	values := url.Values{}
	values.Set("email", email)
	values.Set("list", listID)
	values.Set("boolean", "true")
	values.Set("api_key", cfg.APIKey)

	_, body, err := c.postForm(ctx, cfg, subscribePath, values)
	if err != nil {
		return "", err
	}

	status := ClassifySubscribeResponse(body)
	if status == domain.StatusFailed {
		c.logger.Warn().Str("body", body).Msg("Unrecognized sendy subscribe response")
	}
	return status, nil
}

func (c *client) CampaignExists(ctx context.Context, cfg domain.APIConfig, campaignID string) (bool, error) {
	values := url.Values{}
	values.Set("api_key", cfg.APIKey)
	values.Set("campaign_id", campaignID)

	_, body, err := c.postForm(ctx, cfg, campaignStatusPath, values)
	if err != nil {
		return false, err
	}

	return body == campaignExistsBody, nil
}

func campaignValues(cfg domain.APIConfig, draft domain.CampaignDraft) url.Values {
	values := url.Values{}
	values.Set("api_key", cfg.APIKey)
	values.Set("from_name", draft.FromName)
	values.Set("from_email", draft.FromEmail)
	values.Set("reply_to", draft.ReplyTo)
	values.Set("subject", draft.Subject)
	values.Set("plain_text", draft.PlainText)
	values.Set("html_text", draft.HTMLText)
	values.Set("list_ids", draft.ListIDs)
	values.Set("brand_id", draft.BrandID)
	return values
}

func (c *client) CreateCampaign(ctx context.Context, cfg domain.APIConfig, draft domain.CampaignDraft) (string, error) {
	status, body, err := c.postForm(ctx, cfg, campaignCreatePath, campaignValues(cfg, draft))
	if err != nil {
		return "", err
	}

	// Creation returns the numeric campaign ID allocated upstream.
	if status < 200 || status > 299 {
		return "", &UpstreamError{Endpoint: campaignCreatePath, StatusCode: status, Body: body}
	}
	if _, err := strconv.Atoi(body); err != nil {
		return "", &UpstreamError{Endpoint: campaignCreatePath, StatusCode: status, Body: body}
	}

	return body, nil
}

func (c *client) UpdateCampaign(ctx context.Context, cfg domain.APIConfig, campaignID string, draft domain.CampaignDraft) error {
	values := campaignValues(cfg, draft)
	values.Set("campaign_id", campaignID)

	status, body, err := c.postForm(ctx, cfg, campaignUpdatePath, values)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &UpstreamError{Endpoint: campaignUpdatePath, StatusCode: status, Body: body}
	}

	return nil
}

func (c *client) SubscriberCount(ctx context.Context, cfg domain.APIConfig, listID string) (int, error) {
	values := url.Values{}
	values.Set("api_key", cfg.APIKey)
	values.Set("list_id", listID)

	status, body, err := c.postForm(ctx, cfg, subscriberCountPath, values)
	if err != nil {
		return 0, err
	}

	count, convErr := strconv.Atoi(body)
	if convErr != nil {
		return 0, &UpstreamError{Endpoint: subscriberCountPath, StatusCode: status, Body: body}
	}

	return count, nil
}
