package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
)

// PaymentService pays the hired employee once a job is completed.
// The steps are exported separately so a workflow engine can run them as
// retryable activities. A job has at most one pending or succeeded payment:
// the pending row recorded by Prepare claims the job until it succeeds,
// fails or is refunded.
type PaymentService struct {
	jobs      ports.JobRepository
	apps      ports.ApplicationRepository
	payments  ports.PaymentRepository
	gateway   ports.PaymentGateway
	publisher ports.EventPublisher
	currency  string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	jobs ports.JobRepository,
	apps ports.ApplicationRepository,
	payments ports.PaymentRepository,
	gateway ports.PaymentGateway,
	publisher ports.EventPublisher,
	currency string,
) *PaymentService {
	if currency == "" {
		currency = "CAD"
	}
	return &PaymentService{
		jobs:      jobs,
		apps:      apps,
		payments:  payments,
		gateway:   gateway,
		publisher: publisher,
		currency:  currency,
	}
}

// Pay runs the whole payout synchronously.
func (s *PaymentService) Pay(ctx context.Context, jobID, employerEmail string, amount float64) (*domain.Payment, error) {
	p, err := s.Prepare(ctx, jobID, employerEmail, amount)
	if err != nil {
		return nil, err
	}
	ref, err := s.Charge(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.Settle(ctx, p, ref); err != nil {
		if rerr := s.Refund(ctx, p); rerr != nil {
			slog.ErrorContext(ctx, "refund after failed settle", "payment_id", p.ID, "error", rerr)
		}
		return nil, err
	}
	return p, nil
}

// Prepare checks that the job can be paid and records a pending payment.
func (s *PaymentService) Prepare(ctx context.Context, jobID, employerEmail string, amount float64) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(job.EmployerEmail, employerEmail) {
		return nil, fmt.Errorf("%w: job belongs to another employer", domain.ErrForbidden)
	}
	if !job.Status.CanTransition(domain.JobPaid) {
		return nil, fmt.Errorf("%w: job is %s, must be completed before payment", domain.ErrInvalidTransition, job.Status)
	}

	hired, err := hiredFor(ctx, s.apps, jobID)
	if err != nil {
		return nil, err
	}
	if !ValidPayee(hired.ApplicantEmail) {
		return nil, fmt.Errorf("%w: invalid payee email %q", domain.ErrValidation, hired.ApplicantEmail)
	}

	p := &domain.Payment{
		ID:            uuid.NewString(),
		JobID:         jobID,
		EmployerEmail: job.EmployerEmail,
		PayeeEmail:    hired.ApplicantEmail,
		Amount:        amount,
		Currency:      s.currency,
		Status:        domain.PaymentPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: job %s already has a payment in progress", domain.ErrConflict, jobID)
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

// Charge sends the money through the gateway. A failed charge marks the
// payment failed.
func (s *PaymentService) Charge(ctx context.Context, p *domain.Payment) (string, error) {
	ref, err := s.gateway.Charge(ctx, p.PayeeEmail, p.Amount, p.Currency)
	if err != nil {
		if uerr := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentFailed, ""); uerr != nil {
			slog.ErrorContext(ctx, "mark payment failed", "payment_id", p.ID, "error", uerr)
		}
		return "", fmt.Errorf("charge payee: %w", err)
	}
	p.ProviderRef = ref
	return ref, nil
}

// Settle records a successful charge and marks the job paid.
func (s *PaymentService) Settle(ctx context.Context, p *domain.Payment, providerRef string) error {
	if err := s.RecordCharge(ctx, p, providerRef); err != nil {
		return err
	}
	return s.MarkJobPaid(ctx, p)
}

// RecordCharge stores the provider reference of a successful charge.
func (s *PaymentService) RecordCharge(ctx context.Context, p *domain.Payment, providerRef string) error {
	if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentSucceeded, providerRef); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	p.Status = domain.PaymentSucceeded
	p.ProviderRef = providerRef
	return nil
}

// MarkJobPaid closes out the job and announces the payout. A job that is
// already paid is left alone so a retried call succeeds.
func (s *PaymentService) MarkJobPaid(ctx context.Context, p *domain.Payment) error {
	if err := s.jobs.UpdateStatus(ctx, p.JobID, domain.JobCompleted, domain.JobPaid); err != nil {
		if !errors.Is(err, domain.ErrInvalidTransition) {
			return fmt.Errorf("mark job paid: %w", err)
		}
		job, gerr := s.jobs.GetByID(ctx, p.JobID)
		if gerr != nil || job.Status != domain.JobPaid {
			return fmt.Errorf("mark job paid: %w", err)
		}
		return nil
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPayment(ctx, p); err != nil {
			slog.WarnContext(ctx, "publish payment", "payment_id", p.ID, "error", err)
		}
	}
	return nil
}

// Refund reverses a charge whose later steps could not complete and marks the
// payment refunded. A payment that was never charged is only marked.
func (s *PaymentService) Refund(ctx context.Context, p *domain.Payment) error {
	if p.ProviderRef != "" {
		if err := s.gateway.Refund(ctx, p.ProviderRef); err != nil {
			return fmt.Errorf("refund payment %s: %w", p.ID, err)
		}
	}
	if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentRefunded, ""); err != nil {
		return fmt.Errorf("refund payment %s: %w", p.ID, err)
	}
	p.Status = domain.PaymentRefunded
	return nil
}

// ListForJob returns the payouts recorded for a job.
func (s *PaymentService) ListForJob(ctx context.Context, jobID string) ([]domain.Payment, error) {
	return s.payments.ListByJob(ctx, jobID)
}
