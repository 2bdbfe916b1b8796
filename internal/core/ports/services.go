package ports

import (
	"context"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// EventPublisher publishes marketplace events to a message broker.
type EventPublisher interface {
	PublishJobPosted(ctx context.Context, job *domain.Job) error
	PublishJobStatus(ctx context.Context, job *domain.Job) error
	PublishApplicationSubmitted(ctx context.Context, app *domain.Application) error
	PublishApplicationReviewed(ctx context.Context, app *domain.Application) error
	PublishPayment(ctx context.Context, p *domain.Payment) error
}

// EventSubscriber subscribes to marketplace events from a message broker.
type EventSubscriber interface {
	SubscribeApplications(ctx context.Context, handler func(ctx context.Context, app *domain.Application) error) error
	SubscribeReviews(ctx context.Context, handler func(ctx context.Context, app *domain.Application) error) error
	SubscribePayments(ctx context.Context, handler func(ctx context.Context, p *domain.Payment) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// NotificationService sends notifications (push, email, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, recipient, title, body string) error
}

// PaymentGateway moves money to a payee and returns the provider reference.
// Refund reverses a charge by that reference.
type PaymentGateway interface {
	Charge(ctx context.Context, payeeEmail string, amount float64, currency string) (string, error)
	Refund(ctx context.Context, providerRef string) error
}

// JobPaymentRequest is the input for an asynchronous payout.
type JobPaymentRequest struct {
	JobID         string
	EmployerEmail string
	Amount        float64
}

// WorkflowStarter hands a payout to a durable workflow engine.
type WorkflowStarter interface {
	StartJobPayment(ctx context.Context, req JobPaymentRequest) (string, error)
}
