package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escrow_ledger",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "escrow_ledger",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escrow_ledger",
			Subsystem: "ledger",
			Name:      "payments_total",
			Help:      "Total number of payment attempts.",
		},
		[]string{"currency", "status"},
	)

	paymentVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escrow_ledger",
			Subsystem: "ledger",
			Name:      "payment_volume_total",
			Help:      "Sum of accepted payment amounts, in smallest units.",
		},
		[]string{"currency"},
	)

	withdrawals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escrow_ledger",
			Subsystem: "ledger",
			Name:      "withdrawals_total",
			Help:      "Total number of withdrawal attempts.",
		},
		[]string{"currency", "status"},
	)

	applications = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "escrow_ledger",
			Subsystem: "ledger",
			Name:      "applications_created_total",
			Help:      "Total number of applications registered.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		payments,
		paymentVolume,
		withdrawals,
		applications,
	)
}

// currencyLabel maps the native empty symbol to a readable label.
func currencyLabel(symbol string) string {
	if symbol == "" {
		return "native"
	}
	return symbol
}

// RecordPayment counts a payment attempt; accepted payments also add to the
// volume counter.
func RecordPayment(symbol string, amount int64, accepted bool) {
	status := "accepted"
	if !accepted {
		status = "rejected"
	}
	payments.WithLabelValues(currencyLabel(symbol), status).Inc()
	if accepted {
		paymentVolume.WithLabelValues(currencyLabel(symbol)).Add(float64(amount))
	}
}

// RecordWithdrawal counts a withdrawal attempt.
func RecordWithdrawal(symbol string, accepted bool) {
	status := "accepted"
	if !accepted {
		status = "rejected"
	}
	withdrawals.WithLabelValues(currencyLabel(symbol), status).Inc()
}

// RecordApplicationCreated counts a successful application registration.
func RecordApplicationCreated() {
	applications.Inc()
}

// Handler returns the /metrics HTTP handler bound to the registry.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// HTTPMiddleware instruments request counts and latencies per route.
func HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
