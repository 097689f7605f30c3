package domain

import "time"

// Newsletter is a locally stored content item that can be rendered into an
// email and pushed to Sendy as a campaign. CampaignID holds the remote
// campaign identifier once the first push succeeds; it is never cleared.
type Newsletter struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CampaignID string    `json:"campaign_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EmailContent is the rendered email document for one newsletter. It is
// derived deterministically at render time and never cached.
type EmailContent struct {
	Subject   string `json:"subject"`
	HTMLBody  string `json:"html_body"`
	PlainText string `json:"plain_text"`
}

// CampaignDraft carries everything the Sendy campaign create/update
// endpoints need besides the campaign ID.
type CampaignDraft struct {
	FromName  string
	FromEmail string
	ReplyTo   string
	Subject   string
	PlainText string
	HTMLText  string
	ListIDs   string
	BrandID   string
}
