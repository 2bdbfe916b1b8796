package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// --- Mock JobRepository ---

type mockJobRepo struct {
	createFn         func(ctx context.Context, job *domain.Job) error
	getByIDFn        func(ctx context.Context, id string) (*domain.Job, error)
	listOpenFn       func(ctx context.Context) ([]domain.Job, error)
	listByEmployerFn func(ctx context.Context, email string) ([]domain.Job, error)
	findNearbyFn     func(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error)
	searchFn         func(ctx context.Context, query, category string) ([]domain.Job, error)
	updateStatusFn   func(ctx context.Context, id string, from, to domain.JobStatus) error
	deleteFn         func(ctx context.Context, id string) error
}

func (m *mockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	if m.createFn != nil {
		return m.createFn(ctx, job)
	}
	return nil
}

func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockJobRepo) ListOpen(ctx context.Context) ([]domain.Job, error) {
	if m.listOpenFn != nil {
		return m.listOpenFn(ctx)
	}
	return nil, nil
}

func (m *mockJobRepo) ListByEmployer(ctx context.Context, email string) ([]domain.Job, error) {
	if m.listByEmployerFn != nil {
		return m.listByEmployerFn(ctx, email)
	}
	return nil, nil
}

func (m *mockJobRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Job, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radiusKm)
	}
	return nil, nil
}

func (m *mockJobRepo) Search(ctx context.Context, query, category string) ([]domain.Job, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, category)
	}
	return nil, nil
}

func (m *mockJobRepo) UpdateStatus(ctx context.Context, id string, from, to domain.JobStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to)
	}
	return nil
}

func (m *mockJobRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock ApplicationRepository ---

type mockAppRepo struct {
	createFn          func(ctx context.Context, app *domain.Application) error
	getByIDFn         func(ctx context.Context, id string) (*domain.Application, error)
	listByJobFn       func(ctx context.Context, jobID string) ([]domain.Application, error)
	listByApplicantFn func(ctx context.Context, email string) ([]domain.Application, error)
	existsFn          func(ctx context.Context, jobID, email string) (bool, error)
	updateStatusFn    func(ctx context.Context, id string, status domain.ApplicationStatus) error
}

func (m *mockAppRepo) Create(ctx context.Context, app *domain.Application) error {
	if m.createFn != nil {
		return m.createFn(ctx, app)
	}
	return nil
}

func (m *mockAppRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAppRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	if m.listByJobFn != nil {
		return m.listByJobFn(ctx, jobID)
	}
	return nil, nil
}

func (m *mockAppRepo) ListByApplicant(ctx context.Context, email string) ([]domain.Application, error) {
	if m.listByApplicantFn != nil {
		return m.listByApplicantFn(ctx, email)
	}
	return nil, nil
}

func (m *mockAppRepo) ExistsForApplicant(ctx context.Context, jobID, email string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, jobID, email)
	}
	return false, nil
}

func (m *mockAppRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // by username
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]*domain.User{}}
	for i := range users {
		u := users[i]
		m.users[u.Username] = &u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return domain.ErrConflict
	}
	u := *user
	m.users[user.Username] = &u
	return nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, username string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	return nil
}

// --- Mock PaymentRepository ---

// mockPaymentRepo keeps one pending or succeeded payment per job, like the
// partial unique index on payments.
type mockPaymentRepo struct {
	mu       sync.Mutex
	created  []domain.Payment
	statuses map[string]domain.PaymentStatus
	refs     map[string]string
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{statuses: map[string]domain.PaymentStatus{}, refs: map[string]string{}}
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.created {
		if existing.JobID != p.JobID {
			continue
		}
		if s := m.statuses[existing.ID]; s == domain.PaymentPending || s == domain.PaymentSucceeded {
			return domain.ErrConflict
		}
	}
	m.created = append(m.created, *p)
	m.statuses[p.ID] = p.Status
	return nil
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[id] = status
	m.refs[id] = ref
	return nil
}

func (m *mockPaymentRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Payment
	for _, p := range m.created {
		if p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Mock PaymentGateway ---

type mockGateway struct {
	mu       sync.Mutex
	chargeFn func(ctx context.Context, email string, amount float64, currency string) (string, error)
	calls    int
	refunded []string
}

func (m *mockGateway) Charge(ctx context.Context, email string, amount float64, currency string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.chargeFn != nil {
		return m.chargeFn(ctx, email, amount, currency)
	}
	return "ref-1", nil
}

func (m *mockGateway) Refund(ctx context.Context, providerRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refunded = append(m.refunded, providerRef)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	jobsPosted  []string
	jobStatuses []domain.JobStatus
	submitted   []string
	reviewed    []domain.ApplicationStatus
	payments    []string
	err         error
}

func (m *mockPublisher) PublishJobPosted(ctx context.Context, job *domain.Job) error {
	m.jobsPosted = append(m.jobsPosted, job.ID)
	return m.err
}

func (m *mockPublisher) PublishJobStatus(ctx context.Context, job *domain.Job) error {
	m.jobStatuses = append(m.jobStatuses, job.Status)
	return m.err
}

func (m *mockPublisher) PublishApplicationSubmitted(ctx context.Context, app *domain.Application) error {
	m.submitted = append(m.submitted, app.ID)
	return m.err
}

func (m *mockPublisher) PublishApplicationReviewed(ctx context.Context, app *domain.Application) error {
	m.reviewed = append(m.reviewed, app.Status)
	return m.err
}

func (m *mockPublisher) PublishPayment(ctx context.Context, p *domain.Payment) error {
	m.payments = append(m.payments, p.ID)
	return m.err
}

// --- Mock CacheService ---

type mockCache struct {
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}
