package application

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/ports"
)

// FooterLink is one cross-site navigation link in the email footer.
type FooterLink struct {
	Label string
	URL   string
}

// RenderOptions is the static branding configuration the renderer bakes into
// every email. Injected rather than read from ambient state so renders stay
// deterministic and testable.
type RenderOptions struct {
	SiteName    string
	SiteURL     string
	ArchiveURL  string
	LogoURL     string
	FooterLinks []FooterLink
}

// DefaultRenderOptions returns the stock branding configuration.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		SiteName:   "Newsletter",
		SiteURL:    "https://example.com",
		ArchiveURL: "https://example.com/newsletters",
		LogoURL:    "https://example.com/logo.png",
	}
}

// Email clients largely ignore <style> blocks, so every style is inlined.
var (
	imgTagPattern        = regexp.MustCompile(`(?i)<img(.+?)src="(.*?)"(.*?)>`)
	youtubeEmbedPattern  = regexp.MustCompile(`(?is)(?:<figure[^>]*>\s*(?:<div[^>]*>\s*)?)?<iframe[^>]+src="https://www\.youtube\.com/embed/([a-zA-Z0-9_-]+)[^"]*"[^>]*>\s*</iframe>(?:\s*</div>\s*</figure>)?`)
	youtubeIDPattern     = regexp.MustCompile(`https://www\.youtube\.com/embed/([a-zA-Z0-9_-]+)`)
	figurePattern        = regexp.MustCompile(`(?i)<figure([^>]*)>`)
	figcaptionPattern    = regexp.MustCompile(`(?i)<figcaption([^>]*)>`)
	paragraphPattern     = regexp.MustCompile(`(?i)<p([^>]*)>`)
	headingPattern       = regexp.MustCompile(`(?i)<h2([^>]*)>`)
	listPattern          = regexp.MustCompile(`(?i)<(ol|ul)([^>]*)>`)
	listItemPattern      = regexp.MustCompile(`(?i)<li([^>]*)>`)
	tagPattern           = regexp.MustCompile(`<[^>]*>`)
	blankLinePattern     = regexp.MustCompile(`\n{3,}`)
)

// PassthroughContentRenderer returns stored content unchanged, for installs
// whose newsletter content is already HTML.
type PassthroughContentRenderer struct{}

func (PassthroughContentRenderer) RenderContent(content string) string { return content }

// EmailRenderer transforms newsletter content into a self-contained HTML
// email plus a plain-text fallback. Rendering is pure: identical input yields
// byte-identical output.
type EmailRenderer struct {
	content ports.ContentRenderer
	opts    RenderOptions
}

// NewEmailRenderer creates a renderer. content may be nil when stored
// newsletter content is already HTML.
func NewEmailRenderer(content ports.ContentRenderer, opts RenderOptions) *EmailRenderer {
	return &EmailRenderer{content: content, opts: opts}
}

// Render builds the email document for a newsletter.
func (r *EmailRenderer) Render(newsletter *domain.Newsletter) domain.EmailContent {
	content := newsletter.Content
	if r.content != nil {
		content = r.content.RenderContent(content)
	}

	content = imgTagPattern.ReplaceAllString(content,
		`<img${1}src="${2}"${3} style="height: auto; max-width:100%; object-fit:contain;">`)

	content = youtubeEmbedPattern.ReplaceAllStringFunc(content, replaceYouTubeEmbed)

	content = figurePattern.ReplaceAllString(content,
		`<figure${1} style="text-align: center; margin: auto;">`)
	content = figcaptionPattern.ReplaceAllString(content,
		`<figcaption${1} style="text-align: center;font-size: 15px;padding:5px;">`)
	content = paragraphPattern.ReplaceAllString(content,
		`<p${1} style="font-size: 16px; line-height:1.75em;">`)
	content = headingPattern.ReplaceAllString(content,
		`<h2${1} style="text-align: center;">`)
	content = listPattern.ReplaceAllString(content,
		`<${1}${2} style="font-size: 16px; line-height:1.75em;padding-inline-start:20px;">`)
	content = listItemPattern.ReplaceAllString(content,
		`<li${1} style="margin: 10px 0;">`)

	content = r.headerBlock() + content

	return domain.EmailContent{
		Subject:   newsletter.Title,
		HTMLBody:  r.document(newsletter.Title, content),
		PlainText: stripTags(content),
	}
}

// replaceYouTubeEmbed swaps an embedded player for a clickable thumbnail
// linking to the canonical video URL, since email clients do not render
// iframes.
func replaceYouTubeEmbed(embed string) string {
	match := youtubeIDPattern.FindStringSubmatch(embed)
	if match == nil {
		return embed
	}
	videoID := match[1]
	videoURL := "https://www.youtube.com/watch?v=" + videoID
	thumbnailURL := "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
	return `<a href="` + videoURL + `" target="_blank"><img src="` + thumbnailURL +
		`" alt="Watch our video" style="height: auto; max-width: 100%; display: block; margin: 0 auto;"></a>`
}

func (r *EmailRenderer) headerBlock() string {
	return `<a href="` + r.opts.SiteURL +
		`" style="text-align: center; display: block; margin: 20px auto;border-bottom:2px solid #53940b;"><img src="` +
		r.opts.LogoURL + `" alt="` + html.EscapeString(r.opts.SiteName) +
		` Logo" style="padding-bottom:10px;max-width: 60px; height: auto; display: block; margin: 0 auto;"></a>`
}

func (r *EmailRenderer) footerBlock() string {
	var b strings.Builder
	b.WriteString(`<footer style="text-align: center; padding-top: 20px; font-size: 16px; line-height: 1.5em;">`)
	b.WriteString(`<p>Read this newsletter &amp; all others on the web at <a href="` +
		r.opts.ArchiveURL + `">` + r.opts.ArchiveURL + `</a></p>`)
	b.WriteString(`<p>You received this email because you've connected with ` +
		html.EscapeString(r.opts.SiteName) + ` in some way over the years. Thanks for your support.</p>`)
	if len(r.opts.FooterLinks) > 0 {
		b.WriteString(`<p>`)
		for i, link := range r.opts.FooterLinks {
			if i > 0 {
				b.WriteString(` | `)
			}
			b.WriteString(`<a href="` + link.URL + `">` + html.EscapeString(link.Label) + `</a>`)
		}
		b.WriteString(`</p>`)
	}
	// The <unsubscribe> tag is replaced by Sendy at send time.
	b.WriteString(`<p style="text-align: center; margin-top: 20px; font-size: 16px;"><unsubscribe style="color: #666666; text-decoration: none;">Unsubscribe here</unsubscribe></p>`)
	b.WriteString(`</footer>`)
	return b.String()
}

func (r *EmailRenderer) document(subject, content string) string {
	return fmt.Sprintf(`<html>
<head>
    <title>%s</title>
</head>
<body style="background: #d8d8d8; font-family: Helvetica, sans-serif; padding: 0; margin: 0; width: 100%%; display: flex; justify-content: center; align-items: center;">
    <div style="background: #fff; border: 1px solid #000; max-width: 600px; margin: 20px auto; padding: 0 20px; box-sizing: border-box;">
        %s
        %s
    </div>
</body>
</html>`, html.EscapeString(subject), content, r.footerBlock())
}

// stripTags produces the plain-text fallback from rendered HTML.
func stripTags(content string) string {
	text := tagPattern.ReplaceAllString(content, "")
	text = html.UnescapeString(text)
	text = blankLinePattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
