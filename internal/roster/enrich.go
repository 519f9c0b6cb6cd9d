package roster

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"wellness/internal/models"
	"wellness/internal/upstream"
)

// Departments the dashboard backfills for employees; the backend does not
// report one yet.
var Departments = []string{"Tech", "HR", "Finance", "Sales", "Operations"}

var (
	flaggedDepartments = []string{"Sales", "HR", "IT", "Finance", "Marketing"}
	flaggedMoods       = []string{"Happy", "Neutral", "Sad"}
)

const totalLeaves = 20

// Enricher fills in the fields the backend does not provide yet. It runs
// once per fetch; the result is never re-randomised by filtering or paging.
type Enricher struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEnricher seeds the enricher; seed 0 uses the current time.
func NewEnricher(seed int64) *Enricher {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Enricher{rnd: rand.New(rand.NewSource(seed))}
}

// Dashboard converts the admin dashboard payload into employee records.
func (e *Enricher) Dashboard(raw []upstream.DashboardEmployee) []models.Employee {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Employee, 0, len(raw))
	for _, r := range raw {
		id := r.CompanyID
		if id == "" {
			id = r.Username
		}
		emp := models.Employee{
			ID:              id,
			Name:            r.Username,
			Email:           orDefault(r.Email, "N/A"),
			Department:      Departments[e.rnd.Intn(len(Departments))],
			SleepHours:      models.Float(math.Round((e.rnd.Float64()*4+4)*10) / 10),
			WorkingHours:    r.AverageWorkingHours,
			Rewards:         r.RewardPoints,
			LeavesTaken:     r.LeavesTaken,
			ActivityTracker: activityLevel(r.Activity),
			Vibemeter:       orDefault(r.Mood, "Neutral"),
			Performance:     orDefault(r.Performance, "Average"),
			Reviewed:        e.rnd.Float64() > 0.5,
			UserID:          r.ID,
			Role:            r.Role,
		}
		if r.LeavesTaken != nil {
			emp.LeavesLeft = models.Float(totalLeaves - *r.LeavesTaken)
		}
		out = append(out, emp)
	}
	return out
}

// Flagged converts the flagged-employee payload into review queue entries.
func (e *Enricher) Flagged(raw []upstream.FlaggedEmployee) []models.FlaggedEmployee {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.FlaggedEmployee, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.FlaggedEmployee{
			ID:           r.ID,
			Name:         r.Username,
			CompanyID:    r.CompanyID,
			Role:         r.Role,
			Flagged:      r.IsFlagged,
			Department:   flaggedDepartments[e.rnd.Intn(len(flaggedDepartments))],
			WorkingHours: 35 + e.rnd.Intn(10),
			Rewards:      90 + e.rnd.Intn(50),
			Performance:  65 + e.rnd.Intn(30),
			Mood:         flaggedMoods[e.rnd.Intn(len(flaggedMoods))],
			Problems: []models.Problem{
				{Issue: "Pending review", Summary: "Employee needs assessment."},
			},
		})
	}
	return out
}

// activityLevel keeps the first word of strings like "High activity".
func activityLevel(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[0]
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
