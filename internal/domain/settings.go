package domain

// APIConfig is the per-call connection info for the Sendy API.
type APIConfig struct {
	BaseURL string
	APIKey  string
}

// Settings is the persisted service configuration: Sendy connection, sender
// identity, the campaign list, and per-integration enable flags and list IDs.
// Flags and ListIDs are keyed by each integration's EnableKey and ListIDKey.
type Settings struct {
	APIKey         string            `json:"api_key"`
	SendyURL       string            `json:"sendy_url"`
	FromName       string            `json:"from_name"`
	FromEmail      string            `json:"from_email"`
	ReplyTo        string            `json:"reply_to"`
	BrandID        string            `json:"brand_id"`
	CampaignListID string            `json:"campaign_list_id"`
	Flags          map[string]bool   `json:"flags"`
	ListIDs        map[string]string `json:"list_ids"`
}

// DefaultSettings returns the hard-coded defaults a fresh install starts with.
func DefaultSettings() *Settings {
	return &Settings{
		APIKey:         "",
		SendyURL:       "https://mail.example.com/sendy",
		FromName:       "Newsletter",
		FromEmail:      "newsletter@example.com",
		ReplyTo:        "newsletter@example.com",
		BrandID:        "1",
		CampaignListID: "",
		Flags:          map[string]bool{},
		ListIDs:        map[string]string{},
	}
}

// API returns the connection info used by the Sendy client.
func (s *Settings) API() APIConfig {
	return APIConfig{BaseURL: s.SendyURL, APIKey: s.APIKey}
}

// FlagEnabled reports whether the enable toggle stored under key is on.
func (s *Settings) FlagEnabled(key string) bool {
	if s.Flags == nil {
		return false
	}
	return s.Flags[key]
}

// ListID returns the mailing list ID stored under key, or "" if unset.
func (s *Settings) ListID(key string) string {
	if s.ListIDs == nil {
		return ""
	}
	return s.ListIDs[key]
}

// MergeDefaults fills any zero-valued field from defaults so a partially
// configured install still yields usable settings.
func (s *Settings) MergeDefaults(defaults *Settings) {
	if s.SendyURL == "" {
		s.SendyURL = defaults.SendyURL
	}
	if s.FromName == "" {
		s.FromName = defaults.FromName
	}
	if s.FromEmail == "" {
		s.FromEmail = defaults.FromEmail
	}
	if s.ReplyTo == "" {
		s.ReplyTo = defaults.ReplyTo
	}
	if s.BrandID == "" {
		s.BrandID = defaults.BrandID
	}
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	if s.ListIDs == nil {
		s.ListIDs = map[string]string{}
	}
}
