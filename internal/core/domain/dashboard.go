package domain

// DashboardState selects what the home screen shows for a role.
type DashboardState interface {
	Role() Role
	// ShowNearbyJobs is true when the dashboard lists open jobs around the
	// user instead of the user's own postings.
	ShowNearbyJobs() bool
	Greeting(username string) string
	RoleLabel() string
}

type employeeDashboard struct{}

func (employeeDashboard) Role() Role                      { return RoleEmployee }
func (employeeDashboard) ShowNearbyJobs() bool            { return true }
func (employeeDashboard) Greeting(username string) string { return "Welcome, " + username }
func (employeeDashboard) RoleLabel() string               { return "Current Role: Employee" }

type employerDashboard struct{}

func (employerDashboard) Role() Role                      { return RoleEmployer }
func (employerDashboard) ShowNearbyJobs() bool            { return false }
func (employerDashboard) Greeting(username string) string { return "Welcome, " + username }
func (employerDashboard) RoleLabel() string               { return "Current Role: Employer" }

// DashboardFor returns the dashboard state for role. Unknown roles get the
// employee dashboard.
func DashboardFor(role Role) DashboardState {
	if role == RoleEmployer {
		return employerDashboard{}
	}
	return employeeDashboard{}
}
