package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
	"github.com/samirrijal/quickcash/internal/core/usecases"
)

// PaymentActivities holds the activity implementations for the job payment workflow.
type PaymentActivities struct {
	Payments *usecases.PaymentService
	Notifier ports.NotificationService
}

// PreparePayment checks the job can be paid and records a pending payment.
func (a *PaymentActivities) PreparePayment(ctx context.Context, req ports.JobPaymentRequest) (*domain.Payment, error) {
	p, err := a.Payments.Prepare(ctx, req.JobID, req.EmployerEmail, req.Amount)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// ChargePayee moves the money and returns the provider reference.
func (a *PaymentActivities) ChargePayee(ctx context.Context, p domain.Payment) (string, error) {
	ref, err := a.Payments.Charge(ctx, &p)
	if err != nil {
		return "", classify(err)
	}
	return ref, nil
}

// RecordPayment stores the successful charge.
func (a *PaymentActivities) RecordPayment(ctx context.Context, p domain.Payment, providerRef string) error {
	return classify(a.Payments.RecordCharge(ctx, &p, providerRef))
}

// MarkJobPaid moves the job to paid and publishes the payout event.
func (a *PaymentActivities) MarkJobPaid(ctx context.Context, p domain.Payment) error {
	return classify(a.Payments.MarkJobPaid(ctx, &p))
}

// NotifyPayee tells the employee the money is on its way.
func (a *PaymentActivities) NotifyPayee(ctx context.Context, p domain.Payment) error {
	title := "You've been paid"
	body := fmt.Sprintf("%.2f %s for job %s", p.Amount, p.Currency, p.JobID)
	if a.Notifier == nil {
		slog.InfoContext(ctx, "push (no notifier)", "recipient", p.PayeeEmail, "title", title, "body", body)
		return nil
	}
	return a.Notifier.SendPush(ctx, p.PayeeEmail, title, body)
}

// RefundPayment reverses the charge through the gateway and marks the payment
// refunded (saga compensation).
func (a *PaymentActivities) RefundPayment(ctx context.Context, p domain.Payment) error {
	if err := a.Payments.Refund(ctx, &p); err != nil {
		return err
	}
	slog.InfoContext(ctx, "payment refunded (saga compensation)", "payment_id", p.ID, "provider_ref", p.ProviderRef)
	return nil
}

// classify stops Temporal from retrying errors that cannot succeed on a
// second attempt.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, permanent := range []error{
		domain.ErrValidation,
		domain.ErrForbidden,
		domain.ErrInvalidTransition,
		domain.ErrNotFound,
		domain.ErrConflict,
	} {
		if errors.Is(err, permanent) {
			return temporal.NewNonRetryableApplicationError(err.Error(), "domain", err)
		}
	}
	return err
}
