package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
)

// RegisterRequest carries the fields of the sign-up form.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DashboardView is what the home screen renders for a user.
type DashboardView struct {
	Greeting       string       `json:"greeting"`
	RoleLabel      string       `json:"role_label"`
	Role           domain.Role  `json:"role"`
	ShowNearbyJobs bool         `json:"show_nearby_jobs"`
	RadiusKm       float64      `json:"radius_km,omitempty"`
	Jobs           []domain.Job `json:"jobs"`
}

// UserService handles accounts, role switching and the dashboard.
type UserService struct {
	users          ports.UserRepository
	jobs           *JobService
	nearbyRadiusKm float64
}

// NewUserService creates a new UserService. nearbyRadiusKm is the radius of
// the employee dashboard's nearby-jobs list.
func NewUserService(users ports.UserRepository, jobs *JobService, nearbyRadiusKm float64) *UserService {
	return &UserService{users: users, jobs: jobs, nearbyRadiusKm: nearbyRadiusKm}
}

// Register validates the sign-up form and creates the account.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	var problems []string
	if InputEmpty(req.Username) {
		problems = append(problems, "username is required")
	}
	if InputEmpty(req.FirstName) || InputEmpty(req.LastName) {
		problems = append(problems, "first and last name are required")
	}
	if !ValidEmail(req.Email) {
		problems = append(problems, "invalid email address")
	}
	if !ValidPassword(req.Password) {
		problems = append(problems, fmt.Sprintf("password needs %d+ characters with upper, lower, digit and symbol", MinimumPasswordLength))
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		problems = append(problems, "role must be employee or employer")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(problems, "; "))
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !IsNotFound(err) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		Role:         role,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		CreatedAt:    time.Now().UTC(),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks an email/password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
	}
	return user, nil
}

// GetByUsername returns a single user.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// SwitchRole moves a user to the other side of the marketplace.
func (s *UserService) SwitchRole(ctx context.Context, username, role string) (*domain.User, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Role == r {
		return user, nil
	}
	if err := s.users.UpdateRole(ctx, username, r); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role = r
	return user, nil
}

// Dashboard builds the home screen for a user. Employees see open jobs around
// center; with no center the list is empty. Employers see their own postings.
func (s *UserService) Dashboard(ctx context.Context, username string, center *domain.GeoPoint) (*DashboardView, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	state := domain.DashboardFor(user.Role)
	view := &DashboardView{
		Greeting:       state.Greeting(user.Username),
		RoleLabel:      state.RoleLabel(),
		Role:           state.Role(),
		ShowNearbyJobs: state.ShowNearbyJobs(),
		Jobs:           []domain.Job{},
	}

	if state.ShowNearbyJobs() {
		view.RadiusKm = s.nearbyRadiusKm
		if center == nil {
			return view, nil
		}
		jobs, err := s.jobs.Nearby(ctx, *center, s.nearbyRadiusKm, 0)
		if err != nil {
			return nil, err
		}
		view.Jobs = jobs
		return view, nil
	}

	jobs, err := s.jobs.ListByEmployer(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if jobs != nil {
		view.Jobs = jobs
	}
	return view, nil
}
