package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/quickcash/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// RouterConfig tunes the shared middleware. Zero values use defaults.
type RouterConfig struct {
	RateLimit int // requests per minute per IP
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, cfgs ...RouterConfig) {
	var cfg RouterConfig
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 120
	}

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	with := func(h fiber.Handler) fiber.Handler { return timeout.NewWithContext(h, requestTimeout) }

	// Jobs. Static segments before :id.
	v1.Post("/jobs", with(PostJobHandler(deps)))
	v1.Get("/jobs", with(BrowseJobsHandler(deps)))
	v1.Get("/jobs/nearby", with(NearbyJobsHandler(deps)))
	v1.Get("/jobs/search", with(SearchJobsHandler(deps)))
	v1.Get("/jobs/:id", with(GetJobHandler(deps)))
	v1.Delete("/jobs/:id", with(DeleteJobHandler(deps)))
	v1.Post("/jobs/:id/complete", with(CompleteJobHandler(deps)))
	v1.Post("/jobs/:id/close", with(CloseJobHandler(deps)))
	v1.Get("/employers/:email/jobs", with(EmployerJobsHandler(deps)))

	// Applications
	v1.Post("/jobs/:id/applications", with(ApplyHandler(deps)))
	v1.Get("/jobs/:id/applications", with(JobApplicationsHandler(deps)))
	v1.Post("/applications/:id/review", with(ReviewApplicationHandler(deps)))
	v1.Get("/applicants/:email/applications", with(ApplicantApplicationsHandler(deps)))

	// Users
	v1.Post("/users", with(RegisterHandler(deps)))
	v1.Post("/sessions", with(LoginHandler(deps)))
	v1.Get("/users/:username", with(GetUserHandler(deps)))
	v1.Put("/users/:username/role", with(SwitchRoleHandler(deps)))
	v1.Get("/users/:username/dashboard", with(DashboardHandler(deps)))

	// Payments
	v1.Post("/jobs/:id/payments", with(PayJobHandler(deps)))
	v1.Get("/jobs/:id/payments", with(JobPaymentsHandler(deps)))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS, deps.MapRadiusKm)))
}
