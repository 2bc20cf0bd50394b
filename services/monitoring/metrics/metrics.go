package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evs_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evs_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evs_payment_actions_total",
			Help: "Payment requests by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evs_gateway_request_duration_seconds",
			Help:    "Payment gateway call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	CouponsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evs_coupons_issued_total",
			Help: "Chat coupon requests by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPaymentAction(action, outcome string) {
	PaymentActionsTotal.WithLabelValues(action, outcome).Inc()
}

func ObserveGatewayRequest(operation string, seconds float64) {
	GatewayRequestDuration.WithLabelValues(operation).Observe(seconds)
}

func RecordCouponIssued(outcome string) {
	CouponsIssuedTotal.WithLabelValues(outcome).Inc()
}
