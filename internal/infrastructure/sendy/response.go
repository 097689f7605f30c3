package sendy

import (
	"strings"

	"newsletter-sendy-layer/internal/domain"
)

// ClassifySubscribeResponse translates Sendy's plain-text subscribe response
// into a typed status. The upstream API has no structured response format, so
// matching is by substring; every rule lives here so an upstream format
// change is a single-point edit.
func ClassifySubscribeResponse(body string) domain.SubscriptionStatus {
	body = strings.TrimSpace(body)
	switch {
	case body == "1" || strings.Contains(body, "Success"):
		return domain.StatusSubscribed
	case strings.Contains(body, "Already subscribed"):
		return domain.StatusAlreadySubscribed
	case strings.Contains(body, "Invalid"):
		return domain.StatusInvalid
	default:
		return domain.StatusFailed
	}
}

// campaignExistsBody is the exact status.php response that signals an
// existing campaign; anything else means it has to be created.
const campaignExistsBody = "Campaign exists"
