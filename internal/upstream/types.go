package upstream

// LoginUser is the user object returned by the login endpoint.
type LoginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is the payload of POST /login/.
type LoginResponse struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	User      LoginUser `json:"user"`
	IsFlagged bool      `json:"is_flagged"`
	Role      string    `json:"role"`
	Notified  bool      `json:"notified"`
}

// DashboardEmployee is one entry of the admin dashboard employee list.
// Numbers are pointers because the backend omits them for new hires.
type DashboardEmployee struct {
	ID                  int64    `json:"id"`
	CompanyID           string   `json:"company_id"`
	Username            string   `json:"username"`
	Email               string   `json:"email"`
	Role                string   `json:"role"`
	RewardPoints        *float64 `json:"reward_points"`
	AverageWorkingHours *float64 `json:"average_working_hours"`
	LeavesTaken         *float64 `json:"leaves_taken"`
	Activity            string   `json:"activity"`
	Mood                string   `json:"mood"`
	Performance         string   `json:"performance"`
}

type dashboardResponse struct {
	Employees []DashboardEmployee `json:"employees"`
}

// FlaggedEmployee is one entry of GET /flagged-employees/.
type FlaggedEmployee struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	IsFlagged bool   `json:"is_flagged"`
}

type flaggedResponse struct {
	FlaggedEmployees []FlaggedEmployee `json:"flagged_employees"`
}

// MoodEntry is one day of an employee's mood history.
type MoodEntry struct {
	VibeScore *float64 `json:"vibe_score"`
}

// ActivityEntry is one day of an employee's activity history.
type ActivityEntry struct {
	WorkHours float64 `json:"work_hours"`
}

// DepartmentHours is the average working time of one department.
type DepartmentHours struct {
	Department   string  `json:"department"`
	AverageHours float64 `json:"average_hours"`
}

type departmentHoursResponse struct {
	DepartmentAverages []DepartmentHours `json:"department_averages"`
}

// DepartmentPerformance aggregates performance and rewards per department.
type DepartmentPerformance struct {
	Department             string  `json:"department"`
	AvgPerformanceActivity float64 `json:"avg_performance_activity"`
	TotalRewardPoints      float64 `json:"total_reward_points"`
	EmployeeCount          int     `json:"employee_count"`
}

// Reward is the latest award of an employee.
type Reward struct {
	AwardType    string  `json:"award_type"`
	RewardPoints float64 `json:"reward_points"`
}

type moodTipsRequest struct {
	MoodScore string `json:"mood_score"`
}

type moodTipsResponse struct {
	Tips []string `json:"tips"`
}

// Report is a binary document produced by the report endpoint.
type Report struct {
	ContentType string
	Body        []byte
}

// Profile is passed through untouched; the dashboard edits arbitrary fields.
type Profile map[string]any

type profileResponse struct {
	User Profile `json:"user"`
}

type refreshRequest struct {
	Token string `json:"token"`
}

type refreshResponse struct {
	Token string `json:"token"`
}
