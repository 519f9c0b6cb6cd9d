// Package tasks implements the task list shown under the calendar.
package tasks

import (
	"errors"
	"strings"

	"wellness/internal/models"
)

// ErrInvalidDateRange is returned when a task ends before it starts.
var ErrInvalidDateRange = errors.New("end date is before start date")

// StatusAll disables status filtering.
const StatusAll = "all"

// Validate checks the fields a task must carry before it is stored.
func Validate(t models.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("task title must not be empty")
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return errors.New("task start and end dates are required")
	}
	if t.EndDate.Before(t.StartDate) {
		return ErrInvalidDateRange
	}
	if _, ok := models.ValidTaskStatuses[t.Status]; !ok {
		return errors.New("unknown task status")
	}
	return nil
}

// FilterByStatus keeps tasks in the given status. "all" or "" keeps every
// task; any spelling accepted by models.ParseTaskStatus is understood.
func FilterByStatus(tasks []models.Task, status string) []models.Task {
	if status == "" || strings.EqualFold(status, StatusAll) {
		return tasks
	}
	want, ok := models.ParseTaskStatus(status)
	if !ok {
		return []models.Task{}
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == want {
			out = append(out, t)
		}
	}
	return out
}

// OnDate returns the tasks whose range covers d.
func OnDate(tasks []models.Task, d models.Date) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Covers(d) {
			out = append(out, t)
		}
	}
	return out
}

// ShiftDay moves the task list's date one day back or forward.
func ShiftDay(d models.Date, direction string) (models.Date, error) {
	switch direction {
	case "prev":
		return d.AddDays(-1), nil
	case "next":
		return d.AddDays(1), nil
	}
	return d, errors.New("direction must be prev or next")
}
