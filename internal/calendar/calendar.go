// Package calendar projects task events onto the day cells of a month grid.
package calendar

import (
	"time"

	"wellness/internal/models"
)

// Priority buckets a task for the day-cell indicators.
type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityLow  Priority = "low"
)

// PriorityOf returns high for any task that is not done yet.
func PriorityOf(status models.TaskStatus) Priority {
	if status == models.StatusDone {
		return PriorityLow
	}
	return PriorityHigh
}

// EventMarker is the presentation of one task on one date.
type EventMarker struct {
	TaskID   int64    `json:"task_id,omitempty"`
	Title    string   `json:"title"`
	Time     string   `json:"time"`
	Priority Priority `json:"priority"`
}

// Events maps an ISO date key (yyyy-MM-dd) to the markers shown on that date.
type Events map[string][]EventMarker

// For returns the markers stored under d's key, nil on a miss.
func (e Events) For(d models.Date) []EventMarker {
	if e == nil {
		return nil
	}
	return e[d.String()]
}

// DayCell is one square of the rendered month grid.
type DayCell struct {
	Date           models.Date   `json:"date"`
	Day            int           `json:"day"`
	IsCurrentMonth bool          `json:"is_current_month"`
	IsSelected     bool          `json:"is_selected"`
	Events         []EventMarker `json:"events"`
	HasHigh        bool          `json:"has_high"`
	HasLow         bool          `json:"has_low"`
}

// MonthStart returns the first day of d's month.
func MonthStart(d models.Date) models.Date {
	return models.NewDate(d.Year(), d.Month(), 1)
}

// MonthEnd returns the last day of d's month.
func MonthEnd(d models.Date) models.Date {
	return models.NewDate(d.Year(), d.Month()+1, 0)
}

// isoWeekday numbers Monday 1 through Sunday 7.
func isoWeekday(d models.Date) int {
	if w := d.Weekday(); w != time.Sunday {
		return int(w)
	}
	return 7
}

// GridBounds returns the Monday on or before the month's first day and the
// Sunday on or after its last day.
func GridBounds(anchor models.Date) (models.Date, models.Date) {
	first := MonthStart(anchor)
	last := MonthEnd(anchor)
	return first.AddDays(-(isoWeekday(first) - 1)), last.AddDays(7 - isoWeekday(last))
}

// BuildMonth produces the whole-week grid covering anchor's month. selected
// is an ISO date string; events are looked up by exact key.
func BuildMonth(anchor models.Date, events Events, selected string) []DayCell {
	start, end := GridBounds(anchor)
	month, year := anchor.Month(), anchor.Year()

	cells := make([]DayCell, 0, 42)
	for d := start; !d.After(end); d = d.AddDays(1) {
		markers := events.For(d)
		cell := DayCell{
			Date:           d,
			Day:            d.Day(),
			IsCurrentMonth: d.Month() == month && d.Year() == year,
			IsSelected:     d.String() == selected,
			Events:         markers,
		}
		for _, m := range markers {
			switch m.Priority {
			case PriorityHigh:
				cell.HasHigh = true
			case PriorityLow:
				cell.HasLow = true
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

// EventsFromTasks lists, for every date in [from, to], each task whose
// inclusive range overlaps that date. Dates without tasks get no key.
func EventsFromTasks(tasks []models.Task, from, to models.Date) Events {
	events := Events{}
	for d := from; !d.After(to); d = d.AddDays(1) {
		for _, t := range tasks {
			if !t.Covers(d) {
				continue
			}
			key := d.String()
			events[key] = append(events[key], EventMarker{
				TaskID:   t.ID,
				Title:    t.Title,
				Time:     t.Time,
				Priority: PriorityOf(t.Status),
			})
		}
	}
	return events
}
