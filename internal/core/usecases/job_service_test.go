package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/usecases"
)

var halifax = domain.GeoPoint{Lat: 44.6356, Lon: -63.5957}

func located(id string, lat, lon float64) domain.Job {
	return domain.Job{
		ID:            id,
		Name:          "Job " + id,
		Category:      "Yard Work",
		EmployerEmail: "boss@example.com",
		Status:        domain.JobOpen,
		Location:      &domain.GeoPoint{Lat: lat, Lon: lon},
	}
}

func TestJobService_Post(t *testing.T) {
	var stored *domain.Job
	repo := &mockJobRepo{
		createFn: func(ctx context.Context, job *domain.Job) error {
			stored = job
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewJobService(repo, nil, pub)

	job, err := svc.Post(context.Background(), &domain.Job{
		Name:          "Mow lawn",
		Description:   "Front and back",
		Category:      "Yard Work",
		EmployerEmail: "boss@example.com",
		Location:      &halifax,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if job.Status != domain.JobOpen {
		t.Errorf("expected open status, got %s", job.Status)
	}
	if stored == nil || stored.ID != job.ID {
		t.Error("job was not stored")
	}
	if len(pub.jobsPosted) != 1 {
		t.Errorf("expected 1 job.posted event, got %d", len(pub.jobsPosted))
	}
}

func TestJobService_Post_Validation(t *testing.T) {
	svc := usecases.NewJobService(&mockJobRepo{}, nil, nil)
	cases := []domain.Job{
		{Name: "  ", Description: "d", Category: "c", EmployerEmail: "a@b.ca"},
		{Name: "n", Description: "", Category: "c", EmployerEmail: "a@b.ca"},
		{Name: "n", Description: "d", Category: "\n", EmployerEmail: "a@b.ca"},
		{Name: "n", Description: "d", Category: "c", EmployerEmail: "nope"},
		{Name: "n", Description: "d", Category: "c", EmployerEmail: "a@b.ca", Salary: -1},
	}
	for i := range cases {
		if _, err := svc.Post(context.Background(), &cases[i]); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestJobService_Post_PublishFailureIsNotFatal(t *testing.T) {
	svc := usecases.NewJobService(&mockJobRepo{}, nil, &mockPublisher{err: errors.New("nats down")})
	_, err := svc.Post(context.Background(), &domain.Job{
		Name: "n", Description: "d", Category: "c", EmployerEmail: "a@b.ca",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJobService_Nearby_FiltersAndSorts(t *testing.T) {
	closed := located("closed", 44.6357, -63.5958)
	closed.Status = domain.JobClosed

	repo := &mockJobRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error) {
			if radiusKm != 10 {
				t.Errorf("expected radius 10, got %v", radiusKm)
			}
			return []domain.Job{
				located("bedford", 44.7325, -63.6556),
				located("montreal", 45.5017, -73.5673),
				{ID: "nowhere", Status: domain.JobOpen},
				closed,
				located("near", 44.6358, -63.5959),
				located("dartmouth", 44.6713, -63.5772),
			}, nil
		},
	}
	svc := usecases.NewJobService(repo, nil, nil)

	jobs, err := svc.Nearby(context.Background(), halifax, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"near", "dartmouth"}
	if len(jobs) != len(want) {
		t.Fatalf("expected %d jobs, got %d", len(want), len(jobs))
	}
	for i, id := range want {
		if jobs[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, jobs[i].ID)
		}
		if jobs[i].Distance == nil {
			t.Errorf("%s: expected distance to be set", id)
		}
	}
	if *jobs[0].Distance >= 1.0 {
		t.Errorf("expected nearest job under 1 km, got %v", *jobs[0].Distance)
	}
}

func TestJobService_Nearby_Limit(t *testing.T) {
	repo := &mockJobRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error) {
			return []domain.Job{
				located("c", 44.70, -63.59),
				located("a", 44.6357, -63.5957),
				located("b", 44.65, -63.59),
			}, nil
		},
	}
	svc := usecases.NewJobService(repo, nil, nil)

	jobs, err := svc.Nearby(context.Background(), halifax, 25, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != "a" || jobs[1].ID != "b" {
		t.Errorf("expected [a b], got %v", jobs)
	}
}

func TestJobService_Nearby_NegativeRadius(t *testing.T) {
	repo := &mockJobRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error) {
			return []domain.Job{located("here", halifax.Lat, halifax.Lon)}, nil
		},
	}
	svc := usecases.NewJobService(repo, nil, nil)

	jobs, err := svc.Nearby(context.Background(), halifax, -1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestJobService_Nearby_UsesCache(t *testing.T) {
	calls := 0
	repo := &mockJobRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error) {
			calls++
			return []domain.Job{located("near", 44.6358, -63.5959)}, nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewJobService(repo, cache, nil)

	for i := 0; i < 3; i++ {
		jobs, err := svc.Nearby(context.Background(), halifax, 5, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 1 {
			t.Fatalf("expected 1 job, got %d", len(jobs))
		}
	}
	if calls != 1 {
		t.Errorf("expected repo to be hit once, got %d", calls)
	}
}

func TestJobService_Nearby_DropsCacheOnChange(t *testing.T) {
	calls := 0
	repo := &mockJobRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error) {
			calls++
			return []domain.Job{located("near", 44.6358, -63.5959)}, nil
		},
		getByIDFn: func(ctx context.Context, id string) (*domain.Job, error) {
			j := located(id, 44.6358, -63.5959)
			return &j, nil
		},
	}
	svc := usecases.NewJobService(repo, newMockCache(), nil)
	ctx := context.Background()

	nearby := func() {
		t.Helper()
		if _, err := svc.Nearby(ctx, halifax, 5, 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	nearby()
	nearby()
	if calls != 1 {
		t.Fatalf("expected a cached second read, got %d repo calls", calls)
	}

	if _, err := svc.Close(ctx, "near", "boss@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nearby()
	if calls != 2 {
		t.Errorf("expected closing a job to drop cached nearby results, got %d repo calls", calls)
	}

	if _, err := svc.Post(ctx, &domain.Job{Name: "n", Description: "d", Category: "c", EmployerEmail: "a@b.ca"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nearby()
	if calls != 3 {
		t.Errorf("expected a new posting to drop cached nearby results, got %d repo calls", calls)
	}

	if err := svc.Delete(ctx, "near", "boss@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nearby()
	if calls != 4 {
		t.Errorf("expected deleting a job to drop cached nearby results, got %d repo calls", calls)
	}
}

func TestJobService_Search_AllCategoryAndDistance(t *testing.T) {
	repo := &mockJobRepo{
		searchFn: func(ctx context.Context, query, category string) ([]domain.Job, error) {
			if query != "mow" {
				t.Errorf("expected trimmed query, got %q", query)
			}
			if category != "" {
				t.Errorf("expected All to become empty category, got %q", category)
			}
			return []domain.Job{
				located("far", 45.5017, -73.5673),
				{ID: "unlocated", Status: domain.JobOpen},
				located("close", 44.6358, -63.5959),
			}, nil
		},
	}
	svc := usecases.NewJobService(repo, nil, nil)

	jobs, err := svc.Search(context.Background(), "  mow ", "All", &halifax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{jobs[0].ID, jobs[1].ID, jobs[2].ID}
	want := []string{"close", "far", "unlocated"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
	if jobs[2].Distance != nil {
		t.Error("unlocated job should have no distance")
	}
}

func TestJobService_Browse(t *testing.T) {
	repo := &mockJobRepo{
		listOpenFn: func(ctx context.Context) ([]domain.Job, error) {
			return []domain.Job{
				located("far", 45.5017, -73.5673),
				located("close", 44.6358, -63.5959),
			}, nil
		},
	}
	svc := usecases.NewJobService(repo, nil, nil)

	unsorted, err := svc.Browse(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unsorted[0].ID != "far" || unsorted[0].Distance != nil {
		t.Errorf("expected repository order without distances, got %+v", unsorted[0])
	}

	sorted, err := svc.Browse(context.Background(), &halifax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sorted[0].ID != "close" || sorted[0].Distance == nil {
		t.Errorf("expected closest job first with a distance, got %+v", sorted[0])
	}
}

func TestJobService_Complete(t *testing.T) {
	job := located("j1", 44.6, -63.5)
	var updated domain.JobStatus
	repo := &mockJobRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Job, error) {
			j := job
			return &j, nil
		},
		updateStatusFn: func(ctx context.Context, id string, from, to domain.JobStatus) error {
			if from != domain.JobOpen {
				t.Errorf("expected transition from open, got %s", from)
			}
			updated = to
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewJobService(repo, nil, pub)

	if _, err := svc.Complete(context.Background(), "j1", "other@example.com"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	got, err := svc.Complete(context.Background(), "j1", "BOSS@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.JobCompleted || updated != domain.JobCompleted {
		t.Errorf("expected completed, got %s / %s", got.Status, updated)
	}
	if len(pub.jobStatuses) != 1 {
		t.Errorf("expected 1 status event, got %d", len(pub.jobStatuses))
	}
}

func TestJobService_Close_InvalidTransition(t *testing.T) {
	job := located("j1", 44.6, -63.5)
	job.Status = domain.JobPaid
	repo := &mockJobRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Job, error) { return &job, nil },
	}
	svc := usecases.NewJobService(repo, nil, nil)

	if _, err := svc.Close(context.Background(), "j1", "boss@example.com"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestJobService_GetByID_InvalidatedOnDelete(t *testing.T) {
	job := located("j1", 44.6, -63.5)
	deleted := false
	repo := &mockJobRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Job, error) {
			if deleted {
				return nil, domain.ErrNotFound
			}
			j := job
			return &j, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewJobService(repo, cache, nil)

	if _, err := svc.GetByID(context.Background(), "j1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "j1", "boss@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "j1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
