package ports

// ContentRenderer expands stored newsletter markup into display HTML before
// the email transformation pass. The host content system provides the real
// implementation; the default is a passthrough.
type ContentRenderer interface {
	RenderContent(content string) string
}
