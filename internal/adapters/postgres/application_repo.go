package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// ApplicationRepo implements ports.ApplicationRepository with pgx.
type ApplicationRepo struct {
	db *DB
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

const applicationSelect = `
	SELECT a.id, a.job_id, j.name, a.applicant_email, a.message, a.status, a.created_at
	FROM applications a
	JOIN jobs j ON j.id = a.job_id`

func (r *ApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO applications (id, job_id, applicant_email, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.JobID, a.ApplicantEmail, a.Message, a.Status, a.CreatedAt)
	return translate(err, "insert application")
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	row := r.db.Pool.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		return nil, translate(err, "get application "+id)
	}
	return a, nil
}

func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return r.query(ctx, applicationSelect+` WHERE a.job_id = $1 ORDER BY a.created_at`, jobID)
}

func (r *ApplicationRepo) ListByApplicant(ctx context.Context, email string) ([]domain.Application, error) {
	return r.query(ctx, applicationSelect+` WHERE lower(a.applicant_email) = lower($1) ORDER BY a.created_at DESC`, email)
}

func (r *ApplicationRepo) ExistsForApplicant(ctx context.Context, jobID, email string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM applications WHERE job_id = $1 AND lower(applicant_email) = lower($2)
		)
	`, jobID, email).Scan(&exists)
	return exists, translate(err, "check application")
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	return affected(tag, err, "update application "+id)
}

func (r *ApplicationRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, "query applications")
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	if err := row.Scan(&a.ID, &a.JobID, &a.JobName, &a.ApplicantEmail, &a.Message, &a.Status, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
