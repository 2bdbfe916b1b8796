package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
)

// Notification kinds, used as metric labels by the notifier.
const (
	KindApplicationSubmitted = "application_submitted"
	KindApplicationReviewed  = "application_reviewed"
	KindPaymentReceived      = "payment_received"
)

// NotificationDispatcher turns marketplace events into push notifications.
type NotificationDispatcher struct {
	jobs     ports.JobRepository
	notifier ports.NotificationService
}

// NewNotificationDispatcher creates a new NotificationDispatcher.
func NewNotificationDispatcher(jobs ports.JobRepository, notifier ports.NotificationService) *NotificationDispatcher {
	return &NotificationDispatcher{jobs: jobs, notifier: notifier}
}

// ApplicationSubmitted tells the employer someone applied.
func (d *NotificationDispatcher) ApplicationSubmitted(ctx context.Context, app *domain.Application) error {
	job, err := d.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return fmt.Errorf("load job %s: %w", app.JobID, err)
	}
	return d.notifier.SendPush(ctx, job.EmployerEmail,
		"New application",
		fmt.Sprintf("%s applied to %q", app.ApplicantEmail, job.Name))
}

// ApplicationReviewed tells the applicant the employer's decision.
func (d *NotificationDispatcher) ApplicationReviewed(ctx context.Context, app *domain.Application) error {
	var title string
	switch app.Status {
	case domain.ApplicationAccepted:
		title = "You got the job"
	case domain.ApplicationRejected:
		title = "Application declined"
	default:
		return nil
	}
	return d.notifier.SendPush(ctx, app.ApplicantEmail, title, app.JobName)
}

// PaymentSettled tells the payee money is on the way. Failed payouts are
// not announced.
func (d *NotificationDispatcher) PaymentSettled(ctx context.Context, p *domain.Payment) error {
	if p.Status != domain.PaymentSucceeded {
		return nil
	}
	return d.notifier.SendPush(ctx, p.PayeeEmail,
		"Payment received",
		fmt.Sprintf("%.2f %s for job %s", p.Amount, p.Currency, p.JobID))
}
