package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/pkg/geospatial"
)

const jobColumns = `id, name, description, category, employer_email, lat, lon, salary, status, created_at`

// JobRepo implements ports.JobRepository with pgx.
type JobRepo struct {
	db *DB
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *DB) *JobRepo {
	return &JobRepo{db: db}
}

// Create inserts a job. A nil location is stored as NULL coordinates.
func (r *JobRepo) Create(ctx context.Context, j *domain.Job) error {
	var lat, lon *float64
	if j.Location != nil {
		lat, lon = &j.Location.Lat, &j.Location.Lon
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO jobs (id, name, description, category, employer_email, lat, lon, salary, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, j.ID, j.Name, j.Description, j.Category, j.EmployerEmail, lat, lon, j.Salary, j.Status, j.CreatedAt)
	return translate(err, "insert job")
}

// GetByID returns a job by id.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		return nil, translate(err, "get job "+id)
	}
	return j, nil
}

// ListOpen returns every open job, newest first.
func (r *JobRepo) ListOpen(ctx context.Context) ([]domain.Job, error) {
	return r.query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = 'open' ORDER BY created_at DESC`)
}

// ListByEmployer returns an employer's jobs, newest first.
func (r *JobRepo) ListByEmployer(ctx context.Context, email string) ([]domain.Job, error) {
	return r.query(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE lower(employer_email) = lower($1)
		ORDER BY created_at DESC
	`, email)
}

// FindNearby returns open, located jobs inside the bounding box of the
// radius. Rows near the box corners may lie outside the circle.
func (r *JobRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error) {
	if radiusKm < 0 {
		return []domain.Job{}, nil
	}
	return r.query(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE status = 'open'
		  AND lat IS NOT NULL AND lon IS NOT NULL
		  AND lat BETWEEN $1 AND $2
		  AND (lon BETWEEN $3 AND $4 OR lon BETWEEN $5 AND $6)
		ORDER BY created_at
	`, nearbyArgs(geospatial.BoundingBox(lat, lon, radiusKm*1000))...)
}

// nearbyArgs flattens a box into the FindNearby placeholders. A box with a
// single longitude range repeats it.
func nearbyArgs(box geospatial.Box) []any {
	west, east := box.Lon[0], box.Lon[0]
	if len(box.Lon) > 1 {
		east = box.Lon[1]
	}
	return []any{box.MinLat, box.MaxLat, west[0], west[1], east[0], east[1]}
}

// Search matches open jobs by name substring and optional category.
func (r *JobRepo) Search(ctx context.Context, query, category string) ([]domain.Job, error) {
	return r.query(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE status = 'open'
		  AND name ILIKE '%' || $1 || '%'
		  AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
		LIMIT 200
	`, query, category)
}

// UpdateStatus moves a job from one status to another in a single
// conditional UPDATE, so two writers cannot both leave the same status.
func (r *JobRepo) UpdateStatus(ctx context.Context, id string, from, to domain.JobStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE jobs SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return translate(err, "update job "+id)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current domain.JobStatus
	if err := r.db.Pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&current); err != nil {
		return translate(err, "update job "+id)
	}
	return fmt.Errorf("update job %s: %w: %s -> %s, job is %s", id, domain.ErrInvalidTransition, from, to, current)
}

// Delete removes a job and, by cascade, its applications.
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	return affected(tag, err, "delete job "+id)
}

func (r *JobRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Job, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, "query jobs")
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	var lat, lon *float64
	if err := row.Scan(
		&j.ID, &j.Name, &j.Description, &j.Category, &j.EmployerEmail,
		&lat, &lon, &j.Salary, &j.Status, &j.CreatedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		j.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &j, nil
}
