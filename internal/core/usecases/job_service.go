package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
	"github.com/samirrijal/quickcash/internal/pkg/geospatial"
)

const (
	maxNearbyResults = 100

	// nearbyGenKey holds a token that is part of every nearby cache key.
	// Replacing it orphans all cached nearby results at once.
	nearbyGenKey = "jobs:nearby:gen"
)

// JobService handles job posting, lookup and nearby search.
type JobService struct {
	jobs      ports.JobRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewJobService creates a new JobService. cache and publisher may be nil.
func NewJobService(jobs ports.JobRepository, cache ports.CacheService, publisher ports.EventPublisher) *JobService {
	return &JobService{jobs: jobs, cache: cache, publisher: publisher}
}

// Post validates and stores a new open job.
func (s *JobService) Post(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	switch {
	case InputEmpty(job.Name):
		return nil, fmt.Errorf("%w: job name is required", domain.ErrValidation)
	case InputEmpty(job.Description):
		return nil, fmt.Errorf("%w: job description is required", domain.ErrValidation)
	case InputEmpty(job.Category):
		return nil, fmt.Errorf("%w: job category is required", domain.ErrValidation)
	case !ValidEmail(job.EmployerEmail):
		return nil, fmt.Errorf("%w: invalid employer email", domain.ErrValidation)
	case job.Salary < 0:
		return nil, fmt.Errorf("%w: salary must not be negative", domain.ErrValidation)
	}

	job.ID = uuid.NewString()
	job.Status = domain.JobOpen
	job.CreatedAt = time.Now().UTC()
	job.Distance = nil

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.invalidateNearby(ctx)

	if s.publisher != nil {
		if err := s.publisher.PublishJobPosted(ctx, job); err != nil {
			slog.WarnContext(ctx, "publish job posted", "job_id", job.ID, "error", err)
		}
	}
	return job, nil
}

// GetByID returns a single job.
func (s *JobService) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	cacheKey := "jobs:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var job domain.Job
			if err := json.Unmarshal(data, &job); err == nil {
				return &job, nil
			}
		}
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(job); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600) // 10 min for single job
		}
	}
	return job, nil
}

// Nearby returns open jobs within radiusKm of center, closest first.
// Jobs posted without a location are never returned.
func (s *JobService) Nearby(ctx context.Context, center domain.GeoPoint, radiusKm float64, limit int) ([]domain.Job, error) {
	if limit <= 0 || limit > maxNearbyResults {
		limit = maxNearbyResults
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = fmt.Sprintf("jobs:nearby:%s:%.4f:%.4f:%.2f:%d", s.nearbyGeneration(ctx), center.Lat, center.Lon, radiusKm, limit)
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var jobs []domain.Job
			if err := json.Unmarshal(data, &jobs); err == nil {
				return jobs, nil
			}
		}
	}

	candidates, err := s.jobs.FindNearby(ctx, center.Lat, center.Lon, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("find nearby jobs: %w", err)
	}

	located := make([]domain.Job, 0, len(candidates))
	for _, j := range candidates {
		if j.HasLocation() && j.Status == domain.JobOpen {
			located = append(located, j)
		}
	}

	jobs := geospatial.SortByDistance(geospatial.FilterWithinRadius(located, center, radiusKm), center)
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	withDistances(jobs, center)

	// Cache for 5 minutes
	if s.cache != nil {
		if data, err := json.Marshal(jobs); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return jobs, nil
}

// Search matches open jobs whose name contains query (case-insensitive) in the
// given category. An empty category or "All" matches every category. When
// center is set, results are ordered by distance from it.
func (s *JobService) Search(ctx context.Context, query, category string, center *domain.GeoPoint) ([]domain.Job, error) {
	query = strings.TrimSpace(query)
	if len(query) > 200 {
		return nil, fmt.Errorf("%w: query too long", domain.ErrValidation)
	}
	if strings.EqualFold(strings.TrimSpace(category), "all") {
		category = ""
	}

	jobs, err := s.jobs.Search(ctx, query, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return orderByDistance(jobs, center), nil
}

// Browse lists every open job, newest first, or closest first when center is
// set.
func (s *JobService) Browse(ctx context.Context, center *domain.GeoPoint) ([]domain.Job, error) {
	jobs, err := s.jobs.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	return orderByDistance(jobs, center), nil
}

// ListByEmployer returns every job posted by the employer.
func (s *JobService) ListByEmployer(ctx context.Context, email string) ([]domain.Job, error) {
	return s.jobs.ListByEmployer(ctx, email)
}

// Complete marks a job as done by the hired employee.
func (s *JobService) Complete(ctx context.Context, id, employerEmail string) (*domain.Job, error) {
	return s.transition(ctx, id, employerEmail, domain.JobCompleted)
}

// Close stops a job from accepting applications.
func (s *JobService) Close(ctx context.Context, id, employerEmail string) (*domain.Job, error) {
	return s.transition(ctx, id, employerEmail, domain.JobClosed)
}

// Delete removes a job owned by employerEmail.
func (s *JobService) Delete(ctx context.Context, id, employerEmail string) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !strings.EqualFold(job.EmployerEmail, employerEmail) {
		return fmt.Errorf("%w: job belongs to another employer", domain.ErrForbidden)
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *JobService) transition(ctx context.Context, id, employerEmail string, to domain.JobStatus) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(job.EmployerEmail, employerEmail) {
		return nil, fmt.Errorf("%w: job belongs to another employer", domain.ErrForbidden)
	}
	if !job.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, job.Status, to)
	}

	if err := s.jobs.UpdateStatus(ctx, id, job.Status, to); err != nil {
		return nil, fmt.Errorf("update job status: %w", err)
	}
	job.Status = to
	s.invalidate(ctx, id)

	if s.publisher != nil {
		if err := s.publisher.PublishJobStatus(ctx, job); err != nil {
			slog.WarnContext(ctx, "publish job status", "job_id", id, "status", to, "error", err)
		}
	}
	return job, nil
}

func (s *JobService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "jobs:id:"+id)
	}
	s.invalidateNearby(ctx)
}

func (s *JobService) nearbyGeneration(ctx context.Context) string {
	if data, err := s.cache.Get(ctx, nearbyGenKey); err == nil {
		return string(data)
	}
	return "0"
}

func (s *JobService) invalidateNearby(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Outlives every nearby entry so an expired token cannot revive old keys.
	if err := s.cache.Set(ctx, nearbyGenKey, []byte(uuid.NewString()), 86400); err != nil {
		slog.WarnContext(ctx, "rotate nearby cache generation", "error", err)
	}
}

// orderByDistance sorts jobs closest to center first and fills in their
// distance. Unlocated jobs keep their order after every located one. A nil
// center leaves jobs untouched.
func orderByDistance(jobs []domain.Job, center *domain.GeoPoint) []domain.Job {
	if center == nil {
		return jobs
	}
	located := make([]domain.Job, 0, len(jobs))
	var unlocated []domain.Job
	for _, j := range jobs {
		if j.HasLocation() {
			located = append(located, j)
		} else {
			unlocated = append(unlocated, j)
		}
	}
	sorted := geospatial.SortByDistance(located, *center)
	withDistances(sorted, *center)
	return append(sorted, unlocated...)
}

func withDistances(jobs []domain.Job, center domain.GeoPoint) {
	for i := range jobs {
		d := geospatial.DistanceKm(center, jobs[i])
		jobs[i].Distance = &d
	}
}
