package sendy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-sendy-layer/internal/domain"
)

type recordedRequest struct {
	path string
	form map[string]string
}

// newSendyServer fakes the Sendy installation: it records each request's path
// and form fields and replies with the canned body for that path.
func newSendyServer(t *testing.T, responses map[string]string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form := map[string]string{}
		for key := range r.PostForm {
			form[key] = r.PostForm.Get(key)
		}
		requests = append(requests, recordedRequest{path: r.URL.Path, form: form})

		body, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func testConfig(server *httptest.Server) domain.APIConfig {
	return domain.APIConfig{BaseURL: server.URL + "/", APIKey: "secret"}
}

func TestSubscribeSendsFormAndClassifies(t *testing.T) {
	server, requests := newSendyServer(t, map[string]string{"/subscribe": "1"})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	status, err := client.Subscribe(context.Background(), testConfig(server), "42", "fan@example.com")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubscribed, status)
	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/subscribe", req.path)
	assert.Equal(t, "fan@example.com", req.form["email"])
	assert.Equal(t, "42", req.form["list"])
	assert.Equal(t, "true", req.form["boolean"])
	assert.Equal(t, "secret", req.form["api_key"])
}

func TestSubscribeAlreadySubscribedBody(t *testing.T) {
	server, _ := newSendyServer(t, map[string]string{"/subscribe": "Already subscribed."})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	status, err := client.Subscribe(context.Background(), testConfig(server), "42", "fan@example.com")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAlreadySubscribed, status)
}

func TestSubscribeTransportError(t *testing.T) {
	server, _ := newSendyServer(t, nil)
	cfg := testConfig(server)
	server.Close()
	client := NewClientWithOptions(&http.Client{}, nil, zerolog.Nop())

	_, err := client.Subscribe(context.Background(), cfg, "42", "fan@example.com")

	assert.Error(t, err)
}

func TestCampaignExists(t *testing.T) {
	server, requests := newSendyServer(t, map[string]string{"/api/campaigns/status.php": "Campaign exists"})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	exists, err := client.CampaignExists(context.Background(), testConfig(server), "55")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "55", (*requests)[0].form["campaign_id"])
}

func TestCampaignDoesNotExist(t *testing.T) {
	server, _ := newSendyServer(t, map[string]string{"/api/campaigns/status.php": "Campaign doesn't exist"})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	exists, err := client.CampaignExists(context.Background(), testConfig(server), "55")

	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateCampaignReturnsAllocatedID(t *testing.T) {
	server, requests := newSendyServer(t, map[string]string{"/api/campaigns/create.php": "77"})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	draft := domain.CampaignDraft{
		FromName:  "Extra Weekly",
		FromEmail: "news@extraweekly.test",
		ReplyTo:   "replies@extraweekly.test",
		Subject:   "Issue #12",
		PlainText: "Hello",
		HTMLText:  "<html></html>",
		ListIDs:   "99",
		BrandID:   "1",
	}
	campaignID, err := client.CreateCampaign(context.Background(), testConfig(server), draft)

	require.NoError(t, err)
	assert.Equal(t, "77", campaignID)
	form := (*requests)[0].form
	assert.Equal(t, "Extra Weekly", form["from_name"])
	assert.Equal(t, "Issue #12", form["subject"])
	assert.Equal(t, "99", form["list_ids"])
	assert.Equal(t, "1", form["brand_id"])
	assert.Equal(t, "<html></html>", form["html_text"])
}

func TestCreateCampaignRejectsNonNumericBody(t *testing.T) {
	server, _ := newSendyServer(t, map[string]string{"/api/campaigns/create.php": "Campaign created"})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	_, err := client.CreateCampaign(context.Background(), testConfig(server), domain.CampaignDraft{})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "Campaign created", upstreamErr.Body)
}

func TestUpdateCampaignSendsCampaignID(t *testing.T) {
	server, requests := newSendyServer(t, map[string]string{"/api/campaigns/update.php": "Campaign updated"})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	err := client.UpdateCampaign(context.Background(), testConfig(server), "55", domain.CampaignDraft{Subject: "Issue #12"})

	require.NoError(t, err)
	assert.Equal(t, "55", (*requests)[0].form["campaign_id"])
}

func TestUpdateCampaignNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	err := client.UpdateCampaign(context.Background(), testConfig(server), "55", domain.CampaignDraft{})

	var upstreamErr *UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
}

func TestSubscriberCount(t *testing.T) {
	server, requests := newSendyServer(t, map[string]string{"/api/subscribers/active-subscriber-count.php": "1500"})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	count, err := client.SubscriberCount(context.Background(), testConfig(server), "42")

	require.NoError(t, err)
	assert.Equal(t, 1500, count)
	assert.Equal(t, "42", (*requests)[0].form["list_id"])
}

func TestSubscriberCountNonNumericBody(t *testing.T) {
	server, _ := newSendyServer(t, map[string]string{"/api/subscribers/active-subscriber-count.php": "List does not exist"})
	client := NewClientWithOptions(server.Client(), nil, zerolog.Nop())

	_, err := client.SubscriberCount(context.Background(), testConfig(server), "42")

	assert.Error(t, err)
}
