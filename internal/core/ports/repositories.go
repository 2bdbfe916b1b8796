package ports

import (
	"context"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// JobRepository persists job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	ListOpen(ctx context.Context) ([]domain.Job, error)
	ListByEmployer(ctx context.Context, email string) ([]domain.Job, error)
	// FindNearby returns open, located jobs inside a coarse bounding box
	// around the point. Callers apply the exact radius themselves.
	FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error)
	Search(ctx context.Context, query, category string) ([]domain.Job, error)
	// UpdateStatus moves a job from one status to another. It fails with
	// domain.ErrInvalidTransition when the job is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to domain.JobStatus) error
	Delete(ctx context.Context, id string) error
}

// ApplicationRepository persists job applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]domain.Application, error)
	ListByApplicant(ctx context.Context, email string) ([]domain.Application, error)
	ExistsForApplicant(ctx context.Context, jobID, email string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
}

// UserRepository persists marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, username string, role domain.Role) error
}

// PaymentRepository persists payouts. Create fails with domain.ErrConflict
// while the job already has a pending or succeeded payment.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, providerRef string) error
	ListByJob(ctx context.Context, jobID string) ([]domain.Payment, error)
}
