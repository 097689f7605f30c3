package domain

import (
	"net/mail"
	"strings"
	"time"
)

// SubscriptionStatus classifies the outcome of a subscribe attempt.
type SubscriptionStatus string

const (
	StatusSubscribed        SubscriptionStatus = "subscribed"
	StatusAlreadySubscribed SubscriptionStatus = "already_subscribed"
	StatusInvalid           SubscriptionStatus = "invalid"
	StatusDisabled          SubscriptionStatus = "disabled"
	StatusNotFound          SubscriptionStatus = "not_found"
	StatusError             SubscriptionStatus = "error"
	StatusFailed            SubscriptionStatus = "failed"
)

// SubscriptionResult is the typed, caller-facing outcome of a subscribe call.
// Message is a short human-readable string safe to show to end users; raw
// upstream response text never appears here.
type SubscriptionResult struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Status  SubscriptionStatus `json:"status"`
}

var resultMessages = map[SubscriptionStatus]string{
	StatusSubscribed:        "Successfully subscribed to newsletter",
	StatusAlreadySubscribed: "Email already subscribed",
	StatusInvalid:           "Invalid email address",
	StatusDisabled:          "Newsletter integration is disabled",
	StatusNotFound:          "Newsletter integration not found",
	StatusError:             "Subscription service unavailable",
	StatusFailed:            "Subscription failed, please try again",
}

// ResultFor builds the standard result for a status.
func ResultFor(status SubscriptionStatus) SubscriptionResult {
	return SubscriptionResult{
		Success: status == StatusSubscribed,
		Message: resultMessages[status],
		Status:  status,
	}
}

// ErrorResult builds an error-status result with a specific user-facing message.
func ErrorResult(message string) SubscriptionResult {
	return SubscriptionResult{Success: false, Message: message, Status: StatusError}
}

// ValidEmail performs the syntactic check applied before any network call.
func ValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// SubscriberEvent is emitted after a successful subscription for analytics
// and downstream hooks. Emission is fire-and-forget.
type SubscriberEvent struct {
	Email      string    `json:"email"`
	Context    string    `json:"context"`
	ListID     string    `json:"list_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
