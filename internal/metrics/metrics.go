package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helio_webhook_events_total",
			Help: "Helio webhook notifications by outcome",
		},
		[]string{"outcome"},
	)

	MembershipQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_queries_total",
			Help: "Membership status queries by outcome",
		},
		[]string{"outcome"},
	)
)

var registered bool

func Init() {
	if registered {
		return
	}
	registered = true

	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(MembershipQueriesTotal)
}
