package application

import (
	"context"

	"newsletter-sendy-layer/internal/domain"
)

// stubSettingsRepo is an in-memory SettingsRepository.
type stubSettingsRepo struct {
	settings *domain.Settings
	getErr   error
	saved    *domain.Settings
	saveErr  error
}

func (s *stubSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	return s.settings, s.getErr
}

func (s *stubSettingsRepo) Save(ctx context.Context, settings *domain.Settings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = settings
	s.settings = settings
	return nil
}

// stubSendyClient records calls and returns canned responses.
type stubSendyClient struct {
	subscribeCalls  int
	subscribeStatus domain.SubscriptionStatus
	subscribeErr    error
	lastEmail       string
	lastListID      string
	lastConfig      domain.APIConfig

	existsCalls    int
	existsResult   bool
	existsErr      error
	lastCampaignID string

	createCalls int
	createID    string
	createErr   error
	lastDraft   domain.CampaignDraft

	updateCalls     int
	updateErr       error
	updatedCampaign string

	count    int
	countErr error
}

func (c *stubSendyClient) Subscribe(ctx context.Context, cfg domain.APIConfig, listID, email string) (domain.SubscriptionStatus, error) {
	c.subscribeCalls++
	c.lastConfig = cfg
	c.lastListID = listID
	c.lastEmail = email
	return c.subscribeStatus, c.subscribeErr
}

func (c *stubSendyClient) CampaignExists(ctx context.Context, cfg domain.APIConfig, campaignID string) (bool, error) {
	c.existsCalls++
	c.lastCampaignID = campaignID
	return c.existsResult, c.existsErr
}

func (c *stubSendyClient) CreateCampaign(ctx context.Context, cfg domain.APIConfig, draft domain.CampaignDraft) (string, error) {
	c.createCalls++
	c.lastDraft = draft
	return c.createID, c.createErr
}

func (c *stubSendyClient) UpdateCampaign(ctx context.Context, cfg domain.APIConfig, campaignID string, draft domain.CampaignDraft) error {
	c.updateCalls++
	c.updatedCampaign = campaignID
	c.lastDraft = draft
	return c.updateErr
}

func (c *stubSendyClient) SubscriberCount(ctx context.Context, cfg domain.APIConfig, listID string) (int, error) {
	c.lastListID = listID
	return c.count, c.countErr
}

// stubEventPublisher captures published events on a channel so tests can wait
// for the fire-and-forget goroutine.
type stubEventPublisher struct {
	events chan *domain.SubscriberEvent
	err    error
}

func newStubEventPublisher() *stubEventPublisher {
	return &stubEventPublisher{events: make(chan *domain.SubscriberEvent, 1)}
}

func (p *stubEventPublisher) PublishSubscribed(ctx context.Context, event *domain.SubscriberEvent) error {
	p.events <- event
	return p.err
}

// stubNewsletterRepo is an in-memory NewsletterRepository.
type stubNewsletterRepo struct {
	newsletters map[string]*domain.Newsletter
	getErr      error
	setErr      error
	setCalls    int
	lastSetID   string
	lastSetCID  string
}

func newStubNewsletterRepo(newsletters ...*domain.Newsletter) *stubNewsletterRepo {
	repo := &stubNewsletterRepo{newsletters: map[string]*domain.Newsletter{}}
	for _, n := range newsletters {
		repo.newsletters[n.ID] = n
	}
	return repo
}

func (r *stubNewsletterRepo) Create(ctx context.Context, newsletter *domain.Newsletter) error {
	r.newsletters[newsletter.ID] = newsletter
	return nil
}

func (r *stubNewsletterRepo) GetByID(ctx context.Context, id string) (*domain.Newsletter, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.newsletters[id], nil
}

func (r *stubNewsletterRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Newsletter, error) {
	out := make([]*domain.Newsletter, 0, len(r.newsletters))
	for _, n := range r.newsletters {
		out = append(out, n)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubNewsletterRepo) SetCampaignID(ctx context.Context, id string, campaignID string) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.setCalls++
	r.lastSetID = id
	r.lastSetCID = campaignID
	if n, ok := r.newsletters[id]; ok {
		n.CampaignID = campaignID
	}
	return nil
}
