package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/quickcash/internal/adapters/nats"
	"github.com/samirrijal/quickcash/internal/adapters/notify"
	"github.com/samirrijal/quickcash/internal/adapters/postgres"
	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/usecases"
	"github.com/samirrijal/quickcash/internal/pkg/config"
	"github.com/samirrijal/quickcash/internal/pkg/logging"
	"github.com/samirrijal/quickcash/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load("quickcash-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The employer's address lives on the job, not the application event.
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	dispatcher := usecases.NewNotificationDispatcher(postgres.NewJobRepo(db), notify.NewLogNotifier(slog.Default()))

	counted := func(kind string, err error) error {
		if err == nil {
			metrics.NotificationsSent.WithLabelValues(kind).Inc()
		}
		return err
	}

	if err := sub.SubscribeApplications(ctx, func(ctx context.Context, app *domain.Application) error {
		return counted(usecases.KindApplicationSubmitted, dispatcher.ApplicationSubmitted(ctx, app))
	}); err != nil {
		log.Fatalf("subscribe applications: %v", err)
	}
	if err := sub.SubscribeReviews(ctx, func(ctx context.Context, app *domain.Application) error {
		return counted(usecases.KindApplicationReviewed, dispatcher.ApplicationReviewed(ctx, app))
	}); err != nil {
		log.Fatalf("subscribe reviews: %v", err)
	}
	if err := sub.SubscribePayments(ctx, func(ctx context.Context, p *domain.Payment) error {
		return counted(usecases.KindPaymentReceived, dispatcher.PaymentSettled(ctx, p))
	}); err != nil {
		log.Fatalf("subscribe payments: %v", err)
	}

	slog.Info("notifier started")
	<-ctx.Done()
	slog.Info("notifier stopped")
}
