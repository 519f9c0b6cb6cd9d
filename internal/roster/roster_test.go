package roster

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness/internal/models"
	"wellness/internal/upstream"
)

func ids(es []models.Employee) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func numbered(n int) []models.Employee {
	out := make([]models.Employee, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Employee{ID: fmt.Sprintf("E%d", i), Name: fmt.Sprintf("Employee %d", i)})
	}
	return out
}

func TestApply_MinRewards(t *testing.T) {
	employees := []models.Employee{
		{ID: "E1", Name: "Alice", Rewards: models.Float(10)},
		{ID: "E2", Name: "Bob", Rewards: models.Float(5)},
	}
	got := Apply(employees, Filters{MinRewards: models.Float(8)})
	assert.Equal(t, []string{"E1"}, ids(got))
}

func TestApply_SearchNameOrID(t *testing.T) {
	employees := []models.Employee{
		{ID: "E1", Name: "Alice"},
		{ID: "ali-02", Name: "Zed"},
		{ID: "B2", Name: "Bob"},
	}
	got := Apply(employees, Filters{Search: "ali"})
	assert.Equal(t, []string{"E1", "ali-02"}, ids(got))

	got = Apply(employees, Filters{Search: "ALI"})
	assert.Equal(t, []string{"E1", "ali-02"}, ids(got))
}

func TestApply_Conjunction(t *testing.T) {
	employees := []models.Employee{
		{ID: "E1", Department: "Tech", Vibemeter: "Happy", ActivityTracker: "High", Performance: "Good", Reviewed: true},
		{ID: "E2", Department: "Tech", Vibemeter: "Sad", ActivityTracker: "High", Performance: "Good", Reviewed: true},
		{ID: "E3", Department: "HR", Vibemeter: "happy", ActivityTracker: "High", Performance: "Good", Reviewed: false},
	}

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"no filters", Filters{}, []string{"E1", "E2", "E3"}},
		{"department", Filters{Department: "Tech"}, []string{"E1", "E2"}},
		{"mood is case insensitive", Filters{Mood: "HAPPY"}, []string{"E1", "E3"}},
		{"activity is exact", Filters{Activity: "high"}, []string{}},
		{"department and mood", Filters{Department: "Tech", Mood: "happy"}, []string{"E1"}},
		{"reviewed", Filters{Reviewed: ReviewedYes}, []string{"E1", "E2"}},
		{"not reviewed", Filters{Reviewed: ReviewedNo}, []string{"E3"}},
		{"performance", Filters{Performance: "Good", Department: "HR"}, []string{"E3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(employees, tt.filters)))
		})
	}
}

func TestApply_AbsentFields(t *testing.T) {
	employees := []models.Employee{
		{ID: "E1", Name: "Alice"},
		{ID: "E2", Name: "Bob", SleepHours: models.Float(7), Department: "Tech"},
	}

	assert.Equal(t, []string{"E1", "E2"}, ids(Apply(employees, Filters{})))
	assert.Equal(t, []string{"E2"}, ids(Apply(employees, Filters{MinSleep: models.Float(0)})))
	assert.Equal(t, []string{"E2"}, ids(Apply(employees, Filters{Department: "Tech"})))
	assert.Empty(t, Apply(employees, Filters{Mood: "Happy"}))
}

func TestPaginate(t *testing.T) {
	items := numbered(10)

	p1 := Paginate(items, 1, 8)
	assert.Equal(t, []string{"E1", "E2", "E3", "E4", "E5", "E6", "E7", "E8"}, ids(p1.Items))
	assert.Equal(t, 2, p1.TotalPages)

	p2 := Paginate(items, 2, 8)
	assert.Equal(t, []string{"E9", "E10"}, ids(p2.Items))
	assert.Equal(t, 2, p2.TotalPages)

	p5 := Paginate(items, 5, 8)
	assert.Empty(t, p5.Items)
	assert.Equal(t, 5, p5.Page)

	assert.Equal(t, 0, Paginate(nil, 1, 8).TotalPages)
}

func TestView_Deterministic(t *testing.T) {
	employees := NewEnricher(42).Dashboard([]upstream.DashboardEmployee{
		{Username: "alice", CompanyID: "E1"},
		{Username: "bob", CompanyID: "E2"},
		{Username: "carol", CompanyID: "E3"},
	})
	f := Filters{MinSleep: models.Float(5)}

	first := View(employees, f, 1, 8)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, View(employees, f, 1, 8))
	}
}

func TestParseFilters(t *testing.T) {
	f, err := ParseFilters(Form{Search: "ali", MinSleep: "6.5", MinRewards: " 8 ", Reviewed: "Not Reviewed"})
	require.NoError(t, err)
	assert.Equal(t, "ali", f.Search)
	require.NotNil(t, f.MinSleep)
	assert.Equal(t, 6.5, *f.MinSleep)
	require.NotNil(t, f.MinRewards)
	assert.Equal(t, 8.0, *f.MinRewards)
	assert.Nil(t, f.MinLeaves)
	assert.Equal(t, ReviewedNo, f.Reviewed)

	_, err = ParseFilters(Form{MinLeaves: "many"})
	assert.Error(t, err)

	_, err = ParseFilters(Form{Reviewed: "maybe"})
	assert.Error(t, err)

	empty, err := ParseFilters(Form{})
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestForm_ThresholdsAcceptNumbersAndStrings(t *testing.T) {
	var form Form
	require.NoError(t, json.Unmarshal([]byte(`{"min_rewards": 8, "min_sleep": "6.5", "min_leaves": null, "min_working_hours": 1e1}`), &form))
	assert.Equal(t, Threshold("8"), form.MinRewards)
	assert.Equal(t, Threshold("6.5"), form.MinSleep)
	assert.Equal(t, Threshold(""), form.MinLeaves)

	f, err := ParseFilters(form)
	require.NoError(t, err)
	require.NotNil(t, f.MinRewards)
	assert.Equal(t, 8.0, *f.MinRewards)
	require.NotNil(t, f.MinWorkingHours)
	assert.Equal(t, 10.0, *f.MinWorkingHours)
	assert.Nil(t, f.MinLeaves)

	assert.Error(t, json.Unmarshal([]byte(`{"min_rewards": true}`), &form))
	assert.Error(t, json.Unmarshal([]byte(`{"min_rewards": [8]}`), &form))
}

func TestBrowser_FilterChangeResetsPage(t *testing.T) {
	b := NewBrowser(8)
	b.SetEmployees(numbered(20))

	_, ok := b.GoTo(3)
	require.True(t, ok)
	assert.Equal(t, 3, b.Current().Page)

	page := b.SetFilters(Filters{Search: "1"})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, []string{"E1", "E10", "E11", "E12", "E13", "E14", "E15", "E16"}, ids(page.Items))
}

func TestBrowser_ResetRestoresFirstPage(t *testing.T) {
	b := NewBrowser(8)
	b.SetEmployees(numbered(10))
	unfiltered := b.Current()

	b.SetFilters(Filters{Search: "E9", Department: "Tech", MinSleep: models.Float(3), Reviewed: ReviewedYes})
	assert.Empty(t, b.Current().Items)

	page := b.Reset()
	assert.Equal(t, unfiltered, page)
	assert.True(t, b.Filters().IsZero())
}

func TestBrowser_GoToOutOfRangeIsNoop(t *testing.T) {
	b := NewBrowser(8)
	b.SetEmployees(numbered(10))

	page, ok := b.GoTo(3)
	assert.False(t, ok)
	assert.Equal(t, 1, page.Page)

	_, ok = b.GoTo(0)
	assert.False(t, ok)
	assert.Equal(t, 1, b.Current().Page)
}

func TestBrowser_ClampsWhenResultShrinks(t *testing.T) {
	b := NewBrowser(2)
	employees := numbered(6)
	for i := range employees {
		employees[i].Reviewed = true
	}
	b.SetEmployees(employees)
	b.SetFilters(Filters{Reviewed: ReviewedYes})
	_, ok := b.GoTo(3)
	require.True(t, ok)

	emp, ok := b.SetReviewed("E6", false)
	require.True(t, ok)
	assert.False(t, emp.Reviewed)
	page := b.Current()
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, []string{"E5"}, ids(page.Items))

	b.SetReviewed("E5", false)
	assert.Equal(t, 2, b.Current().Page)

	page = b.SetEmployees(nil)
	assert.Equal(t, 1, page.Page)
	assert.Empty(t, page.Items)

	_, ok = b.SetReviewed("missing", true)
	assert.False(t, ok)
}

func TestEnricher_SingleSeededPass(t *testing.T) {
	raw := []upstream.DashboardEmployee{
		{ID: 7, Username: "alice", CompanyID: "E1", RewardPoints: models.Float(3), LeavesTaken: models.Float(4), Activity: "High activity"},
		{ID: 8, Username: "bob"},
	}

	a := NewEnricher(7).Dashboard(raw)
	b := NewEnricher(7).Dashboard(raw)
	assert.Equal(t, a, b)

	require.Len(t, a, 2)
	assert.Equal(t, "E1", a[0].ID)
	assert.Equal(t, "High", a[0].ActivityTracker)
	require.NotNil(t, a[0].LeavesLeft)
	assert.Equal(t, 16.0, *a[0].LeavesLeft)
	assert.Contains(t, Departments, a[0].Department)
	require.NotNil(t, a[0].SleepHours)
	assert.GreaterOrEqual(t, *a[0].SleepHours, 4.0)
	assert.LessOrEqual(t, *a[0].SleepHours, 8.0)

	assert.Equal(t, "bob", a[1].ID)
	assert.Equal(t, "N/A", a[1].Email)
	assert.Equal(t, "Unknown", a[1].ActivityTracker)
	assert.Equal(t, "Neutral", a[1].Vibemeter)
	assert.Equal(t, "Average", a[1].Performance)
	assert.Nil(t, a[1].Rewards)
	assert.Nil(t, a[1].LeavesLeft)
}

func TestEnricher_Flagged(t *testing.T) {
	got := NewEnricher(1).Flagged([]upstream.FlaggedEmployee{{ID: 3, Username: "carol", IsFlagged: true}})
	require.Len(t, got, 1)
	f := got[0]
	assert.Equal(t, "carol", f.Name)
	assert.True(t, f.Flagged)
	assert.False(t, f.Reviewed)
	assert.GreaterOrEqual(t, f.WorkingHours, 35)
	assert.Less(t, f.WorkingHours, 45)
	assert.GreaterOrEqual(t, f.Performance, 65)
	assert.Less(t, f.Performance, 95)
	assert.Len(t, f.Problems, 1)
}
