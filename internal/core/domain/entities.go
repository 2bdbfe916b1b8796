package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the side of the marketplace a user is currently acting on.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleEmployer Role = "employer"
)

// ParseRole accepts "Employee"/"employer" in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleEmployer:
		return RoleEmployer, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// User is a registered marketplace account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`

	PasswordHash []byte `json:"-"`
}

// JobStatus tracks a posting from open to paid.
type JobStatus string

const (
	JobOpen      JobStatus = "open"
	JobClosed    JobStatus = "closed"
	JobCompleted JobStatus = "completed"
	JobPaid      JobStatus = "paid"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobOpen:      {JobClosed, JobCompleted},
	JobClosed:    {JobCompleted},
	JobCompleted: {JobPaid},
}

// CanTransition reports whether a job may move from s to next.
func (s JobStatus) CanTransition(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Job is a posting created by an employer.
type Job struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	EmployerEmail string    `json:"employer_email"`
	Location      *GeoPoint `json:"location,omitempty"`
	Salary        float64   `json:"salary,omitempty"`
	Status        JobStatus `json:"status"`
	Distance      *float64  `json:"distance_km,omitempty"` // computed field
	CreatedAt     time.Time `json:"created_at"`
}

// HasLocation reports whether the job was posted with a position.
// A job at (0, 0) with a location set is a real location.
func (j Job) HasLocation() bool { return j.Location != nil }

// Coordinates implements geospatial.Located. Jobs without a location report
// NaN coordinates.
func (j Job) Coordinates() (float64, float64) {
	if j.Location == nil {
		return noLocation.Coordinates()
	}
	return j.Location.Coordinates()
}

// ApplicationStatus is the employer's decision on an application.
// ApplicationOpen means submitted and not yet reviewed.
type ApplicationStatus string

const (
	ApplicationOpen      ApplicationStatus = "open"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCompleted ApplicationStatus = "completed"
)

// Rank orders applications for an applicant's list: accepted first, then
// pending, then rejected.
func (s ApplicationStatus) Rank() int {
	switch s {
	case ApplicationAccepted:
		return 0
	case ApplicationOpen:
		return 1
	case ApplicationRejected:
		return 2
	default:
		return 3
	}
}

// Application is an employee's request to take a job.
type Application struct {
	ID             string            `json:"id"`
	JobID          string            `json:"job_id"`
	JobName        string            `json:"job_name"`
	ApplicantEmail string            `json:"applicant_email"`
	Message        string            `json:"message"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}

// PaymentStatus is the outcome of a payout.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is a payout from an employer to the hired employee.
type Payment struct {
	ID            string        `json:"id"`
	JobID         string        `json:"job_id"`
	EmployerEmail string        `json:"employer_email"`
	PayeeEmail    string        `json:"payee_email"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	ProviderRef   string        `json:"provider_ref,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
