package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors. All methods are nil-safe
// so code paths under test can run without a registry.
type Metrics struct {
	subscriptionAttempts *prometheus.CounterVec
	campaignPushes       *prometheus.CounterVec
	sendyRequestDuration *prometheus.HistogramVec
}

// New registers the collectors with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		subscriptionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsletter",
			Name:      "subscription_attempts_total",
			Help:      "Subscription attempts by integration context and outcome.",
		}, []string{"context", "status"}),
		campaignPushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsletter",
			Name:      "campaign_pushes_total",
			Help:      "Campaign push attempts by result.",
		}, []string{"result"}),
		sendyRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "newsletter",
			Name:      "sendy_request_duration_seconds",
			Help:      "Duration of outbound Sendy API requests by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// RecordSubscription counts one subscription attempt outcome.
func (m *Metrics) RecordSubscription(context, status string) {
	if m == nil {
		return
	}
	m.subscriptionAttempts.WithLabelValues(context, status).Inc()
}

// RecordCampaignPush counts one campaign push result (created, updated, failed).
func (m *Metrics) RecordCampaignPush(result string) {
	if m == nil {
		return
	}
	m.campaignPushes.WithLabelValues(result).Inc()
}

// ObserveSendyRequest records the duration of one outbound API call.
func (m *Metrics) ObserveSendyRequest(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.sendyRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}
