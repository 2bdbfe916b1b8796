package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/quickcash/internal/adapters/nats"
	"github.com/samirrijal/quickcash/internal/adapters/notify"
	"github.com/samirrijal/quickcash/internal/adapters/payments"
	"github.com/samirrijal/quickcash/internal/adapters/postgres"
	temporaladapter "github.com/samirrijal/quickcash/internal/adapters/temporal"
	"github.com/samirrijal/quickcash/internal/core/ports"
	"github.com/samirrijal/quickcash/internal/core/usecases"
	"github.com/samirrijal/quickcash/internal/pkg/config"
	"github.com/samirrijal/quickcash/internal/pkg/logging"
	"github.com/samirrijal/quickcash/internal/workflows"
)

func main() {
	cfg, err := config.Load("quickcash-payments")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, payment events will not be published", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	jobRepo := postgres.NewJobRepo(db)
	paymentSvc := usecases.NewPaymentService(
		jobRepo,
		postgres.NewApplicationRepo(db),
		postgres.NewPaymentRepo(db),
		&payments.Simulated{MaxAmount: cfg.Payments.MaxAmount},
		publisher,
		cfg.Payments.Currency,
	)

	// Connect to Temporal
	c, err := temporaladapter.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	queue := cfg.Temporal.TaskQueue
	if queue == "" {
		queue = workflows.TaskQueue
	}
	w := worker.New(c, queue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.JobPaymentWorkflow)
	w.RegisterActivity(&workflows.PaymentActivities{
		Payments: paymentSvc,
		Notifier: notify.NewLogNotifier(slog.Default()),
	})

	slog.Info("payments worker started", "task_queue", queue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
