package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickcash",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "quickcash",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Marketplace metrics
	JobsPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickcash",
		Subsystem: "jobs",
		Name:      "posted_total",
		Help:      "Total jobs posted",
	}, []string{"category"})

	NearbyResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "quickcash",
		Subsystem: "jobs",
		Name:      "nearby_results",
		Help:      "Number of jobs returned by nearby searches",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quickcash",
		Subsystem: "applications",
		Name:      "submitted_total",
		Help:      "Total job applications submitted",
	})

	ApplicationsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickcash",
		Subsystem: "applications",
		Name:      "reviewed_total",
		Help:      "Total applications reviewed, by decision",
	}, []string{"decision"})

	PaymentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickcash",
		Subsystem: "payments",
		Name:      "processed_total",
		Help:      "Total payouts, by final status",
	}, []string{"status"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickcash",
		Subsystem: "notifier",
		Name:      "sent_total",
		Help:      "Total push notifications sent, by event kind",
	}, []string{"kind"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "quickcash",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	// Cache metrics
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quickcash",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache lookups that found a value",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quickcash",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache lookups that found nothing",
	})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "quickcash",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "quickcash",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "quickcash",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// Route pattern keeps ids out of label values.
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat the pool gauges read.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics updates database pool gauges.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}
