package domain

// Integration describes a named subscription entry point (a "context") and the
// settings keys that bind it to its enable toggle and Sendy mailing list.
// Integrations are registered once at startup and immutable afterwards.
type Integration struct {
	Context     string `json:"context"`
	Label       string `json:"label"`
	Description string `json:"description"`
	EnableKey   string `json:"enable_key"`
	ListIDKey   string `json:"list_id_key"`
}
