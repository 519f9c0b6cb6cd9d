package models

import (
	"strings"
)

// TaskStatus is the progress column a task currently sits in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "To-do"
	StatusInProgress TaskStatus = "In-Progress"
	StatusDone       TaskStatus = "Done"
)

// ValidTaskStatuses enumerates the statuses supported by the task list.
var ValidTaskStatuses = map[TaskStatus]struct{}{
	StatusTodo:       {},
	StatusInProgress: {},
	StatusDone:       {},
}

// ParseTaskStatus maps the spellings used by the dashboard ("To do",
// "in progress", "completed", ...) onto the canonical statuses.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "todo":
		return StatusTodo, true
	case "inprogress":
		return StatusInProgress, true
	case "done", "complete", "completed":
		return StatusDone, true
	}
	return "", false
}

// Task is a dated piece of work shown on the calendar and in the task list.
type Task struct {
	ID          int64      `json:"id"`
	Owner       string     `json:"owner"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Time        string     `json:"time"`
	StartDate   Date       `json:"start_date"`
	EndDate     Date       `json:"end_date"`
	Status      TaskStatus `json:"status"`
	Position    int64      `json:"position"`
}

// Covers reports whether d falls inside the task's inclusive date range.
func (t Task) Covers(d Date) bool {
	return !d.Before(t.StartDate) && !d.After(t.EndDate)
}

// Employee is one row of the HR employee list after enrichment.
// Numeric fields are nil when the backend did not provide them.
type Employee struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Department      string   `json:"department"`
	SleepHours      *float64 `json:"sleep_hours,omitempty"`
	WorkingHours    *float64 `json:"working_hours,omitempty"`
	Rewards         *float64 `json:"rewards,omitempty"`
	LeavesTaken     *float64 `json:"leaves_taken,omitempty"`
	LeavesLeft      *float64 `json:"leaves_left,omitempty"`
	ActivityTracker string   `json:"activity_tracker"`
	Vibemeter       string   `json:"vibemeter"`
	Performance     string   `json:"performance"`
	Reviewed        bool     `json:"reviewed"`
	UserID          int64    `json:"user_id"`
	Role            string   `json:"role"`
}

// Problem is one reason an employee was flagged.
type Problem struct {
	Issue   string `json:"issue"`
	Summary string `json:"summary"`
}

// FlaggedEmployee is an entry in the HR review queue.
type FlaggedEmployee struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CompanyID    string    `json:"company_id"`
	Role         string    `json:"role"`
	Flagged      bool      `json:"is_flagged"`
	Department   string    `json:"department"`
	WorkingHours int       `json:"working_hours"`
	Rewards      int       `json:"rewards"`
	Performance  int       `json:"performance"`
	Mood         string    `json:"mood"`
	Reviewed     bool      `json:"reviewed"`
	Chatbot      bool      `json:"chatbot"`
	Problems     []Problem `json:"problems"`
}

// Float returns a pointer to v, for populating optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
