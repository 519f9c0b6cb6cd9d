// Package roster filters, paginates and enriches the HR employee list.
package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"wellness/internal/models"
)

// ReviewedFilter is a tri-state over Employee.Reviewed.
type ReviewedFilter string

const (
	ReviewedAll ReviewedFilter = ""
	ReviewedYes ReviewedFilter = "Reviewed"
	ReviewedNo  ReviewedFilter = "Not Reviewed"
)

// Filters holds one value per employee-list filter. The zero value matches
// every employee.
type Filters struct {
	Search          string         `json:"search"`
	Department      string         `json:"department"`
	MinSleep        *float64       `json:"min_sleep,omitempty"`
	MinRewards      *float64       `json:"min_rewards,omitempty"`
	MinWorkingHours *float64       `json:"min_working_hours,omitempty"`
	MinLeaves       *float64       `json:"min_leaves,omitempty"`
	Activity        string         `json:"activity"`
	Mood            string         `json:"mood"`
	Performance     string         `json:"performance"`
	Reviewed        ReviewedFilter `json:"reviewed"`
}

// Threshold is a raw numeric filter value. In JSON it may be a number, a
// string or null.
type Threshold string

// UnmarshalJSON keeps the literal text of a number or the content of a string.
func (t *Threshold) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Threshold(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("threshold %s: not a number or string", data)
	}
	*t = Threshold(n)
	return nil
}

// Form is the raw form of Filters as submitted by the filter bar.
type Form struct {
	Search          string    `form:"search" json:"search"`
	Department      string    `form:"department" json:"department"`
	MinSleep        Threshold `form:"min_sleep" json:"min_sleep"`
	MinRewards      Threshold `form:"min_rewards" json:"min_rewards"`
	MinWorkingHours Threshold `form:"min_working_hours" json:"min_working_hours"`
	MinLeaves       Threshold `form:"min_leaves" json:"min_leaves"`
	Activity        string `form:"activity" json:"activity"`
	Mood            string `form:"mood" json:"mood"`
	Performance     string `form:"performance" json:"performance"`
	Reviewed        string `form:"reviewed" json:"reviewed"`
}

// ParseFilters converts form values into Filters. Empty strings leave a
// filter inactive; malformed thresholds are an error.
func ParseFilters(f Form) (Filters, error) {
	out := Filters{
		Search:      f.Search,
		Department:  f.Department,
		Activity:    f.Activity,
		Mood:        f.Mood,
		Performance: f.Performance,
	}

	thresholds := []struct {
		name string
		raw  Threshold
		dst  **float64
	}{
		{"min_sleep", f.MinSleep, &out.MinSleep},
		{"min_rewards", f.MinRewards, &out.MinRewards},
		{"min_working_hours", f.MinWorkingHours, &out.MinWorkingHours},
		{"min_leaves", f.MinLeaves, &out.MinLeaves},
	}
	for _, th := range thresholds {
		raw := strings.TrimSpace(string(th.raw))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Filters{}, fmt.Errorf("%s: %q is not a number", th.name, th.raw)
		}
		*th.dst = &v
	}

	switch ReviewedFilter(f.Reviewed) {
	case ReviewedAll, ReviewedYes, ReviewedNo:
		out.Reviewed = ReviewedFilter(f.Reviewed)
	default:
		return Filters{}, fmt.Errorf("reviewed: unknown value %q", f.Reviewed)
	}
	return out, nil
}

// IsZero reports whether no filter is active.
func (f Filters) IsZero() bool {
	return f.Search == "" && f.Department == "" &&
		f.MinSleep == nil && f.MinRewards == nil && f.MinWorkingHours == nil && f.MinLeaves == nil &&
		f.Activity == "" && f.Mood == "" && f.Performance == "" && f.Reviewed == ReviewedAll
}

// Match reports whether e passes every active filter.
func (f Filters) Match(e models.Employee) bool {
	return f.matchSearch(e) &&
		equals(f.Department, e.Department) &&
		atLeast(f.MinSleep, e.SleepHours) &&
		atLeast(f.MinRewards, e.Rewards) &&
		atLeast(f.MinWorkingHours, e.WorkingHours) &&
		atLeast(f.MinLeaves, e.LeavesTaken) &&
		equals(f.Activity, e.ActivityTracker) &&
		(f.Mood == "" || strings.EqualFold(f.Mood, e.Vibemeter)) &&
		equals(f.Performance, e.Performance) &&
		f.matchReviewed(e)
}

func (f Filters) matchSearch(e models.Employee) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.ID), q)
}

func (f Filters) matchReviewed(e models.Employee) bool {
	switch f.Reviewed {
	case ReviewedYes:
		return e.Reviewed
	case ReviewedNo:
		return !e.Reviewed
	}
	return true
}

func equals(want, got string) bool {
	return want == "" || want == got
}

// atLeast fails only when a threshold is set and the value is absent or lower.
func atLeast(threshold, value *float64) bool {
	if threshold == nil {
		return true
	}
	return value != nil && *value >= *threshold
}

// Apply returns the employees matching f, keeping input order.
func Apply(employees []models.Employee, f Filters) []models.Employee {
	out := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
