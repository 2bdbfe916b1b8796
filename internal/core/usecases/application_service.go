package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
)

// ApplicationService handles applying to jobs and reviewing applications.
type ApplicationService struct {
	apps      ports.ApplicationRepository
	jobs      ports.JobRepository
	publisher ports.EventPublisher
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(apps ports.ApplicationRepository, jobs ports.JobRepository, publisher ports.EventPublisher) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, publisher: publisher}
}

// Apply submits an application from applicantEmail to an open job.
func (s *ApplicationService) Apply(ctx context.Context, jobID, applicantEmail, message string) (*domain.Application, error) {
	if !ValidEmail(applicantEmail) {
		return nil, fmt.Errorf("%w: invalid applicant email", domain.ErrValidation)
	}
	if InputEmpty(message) {
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobOpen {
		return nil, fmt.Errorf("%w: job is %s", domain.ErrConflict, job.Status)
	}
	if strings.EqualFold(job.EmployerEmail, applicantEmail) {
		return nil, fmt.Errorf("%w: cannot apply to your own job", domain.ErrValidation)
	}

	exists, err := s.apps.ExistsForApplicant(ctx, jobID, applicantEmail)
	if err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: already applied to this job", domain.ErrConflict)
	}

	app := &domain.Application{
		ID:             uuid.NewString(),
		JobID:          job.ID,
		JobName:        job.Name,
		ApplicantEmail: applicantEmail,
		Message:        strings.TrimSpace(message),
		Status:         domain.ApplicationOpen,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishApplicationSubmitted(ctx, app); err != nil {
			slog.WarnContext(ctx, "publish application submitted", "application_id", app.ID, "error", err)
		}
	}
	return app, nil
}

// Review records the employer's accept/reject decision on a pending application.
func (s *ApplicationService) Review(ctx context.Context, appID, employerEmail string, decision domain.ApplicationStatus) (*domain.Application, error) {
	if decision != domain.ApplicationAccepted && decision != domain.ApplicationRejected {
		return nil, fmt.Errorf("%w: decision must be accepted or rejected", domain.ErrValidation)
	}

	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(job.EmployerEmail, employerEmail) {
		return nil, fmt.Errorf("%w: job belongs to another employer", domain.ErrForbidden)
	}
	if app.Status != domain.ApplicationOpen {
		return nil, fmt.Errorf("%w: application already %s", domain.ErrInvalidTransition, app.Status)
	}

	if err := s.apps.UpdateStatus(ctx, appID, decision); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	app.Status = decision

	if s.publisher != nil {
		if err := s.publisher.PublishApplicationReviewed(ctx, app); err != nil {
			slog.WarnContext(ctx, "publish application reviewed", "application_id", app.ID, "error", err)
		}
	}
	return app, nil
}

// ListForJob returns the applications received by a job.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return s.apps.ListByJob(ctx, jobID)
}

// ListForApplicant returns an employee's applications, accepted first, then
// pending, then rejected.
func (s *ApplicationService) ListForApplicant(ctx context.Context, email string) ([]domain.Application, error) {
	apps, err := s.apps.ListByApplicant(ctx, email)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(apps, func(a, b domain.Application) int {
		return a.Status.Rank() - b.Status.Rank()
	})
	return apps, nil
}

// HiredFor returns the accepted application for a job.
func (s *ApplicationService) HiredFor(ctx context.Context, jobID string) (*domain.Application, error) {
	return hiredFor(ctx, s.apps, jobID)
}

func hiredFor(ctx context.Context, apps ports.ApplicationRepository, jobID string) (*domain.Application, error) {
	list, err := apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Status == domain.ApplicationAccepted {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no accepted applicant for job %s", domain.ErrNotFound, jobID)
}

// IsNotFound reports whether err means a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
