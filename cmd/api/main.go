package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/quickcash/internal/adapters/http"
	natsadapter "github.com/samirrijal/quickcash/internal/adapters/nats"
	"github.com/samirrijal/quickcash/internal/adapters/payments"
	"github.com/samirrijal/quickcash/internal/adapters/postgres"
	temporaladapter "github.com/samirrijal/quickcash/internal/adapters/temporal"
	"github.com/samirrijal/quickcash/internal/adapters/valkey"
	"github.com/samirrijal/quickcash/internal/core/ports"
	"github.com/samirrijal/quickcash/internal/core/usecases"
	"github.com/samirrijal/quickcash/internal/pkg/config"
	"github.com/samirrijal/quickcash/internal/pkg/logging"
	"github.com/samirrijal/quickcash/internal/pkg/metrics"
	"github.com/samirrijal/quickcash/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("quickcash-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache. Interfaces stay nil when a backend is down so services skip it.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	// Repos
	jobRepo := postgres.NewJobRepo(db)
	appRepo := postgres.NewApplicationRepo(db)
	userRepo := postgres.NewUserRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)

	// Use cases
	jobSvc := usecases.NewJobService(jobRepo, cacheSvc, publisher)
	appSvc := usecases.NewApplicationService(appRepo, jobRepo, publisher)
	userSvc := usecases.NewUserService(userRepo, jobSvc, cfg.Geo.DashboardRadiusKm)
	paymentSvc := usecases.NewPaymentService(jobRepo, appRepo, paymentRepo,
		&payments.Simulated{MaxAmount: cfg.Payments.MaxAmount}, publisher, cfg.Payments.Currency)

	deps := &http.Dependencies{
		Jobs:         jobSvc,
		Applications: appSvc,
		Users:        userSvc,
		Payments:     paymentSvc,
		MapRadiusKm:  cfg.Geo.MapRadiusKm,
		NATS:         natsConn,
		DB:           db,
		Cache:        cache,
	}

	// Temporal. Without it payouts run inline.
	if cfg.Temporal.Enabled {
		tc, err := temporaladapter.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
		if err != nil {
			slog.Warn("temporal unavailable, paying synchronously", "error", err)
		} else {
			defer tc.Close()
			deps.Workflows = temporaladapter.NewStarter(tc, cfg.Temporal.TaskQueue)
		}
	}

	// DB pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "QuickCash API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + http.HeaderUserEmail,
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps, http.RouterConfig{RateLimit: cfg.Server.RateLimit})

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
