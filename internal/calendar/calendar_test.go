package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness/internal/models"
)

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestBuildMonth_WholeWeeksForEveryMonth(t *testing.T) {
	for year := 2020; year <= 2027; year++ {
		for month := time.January; month <= time.December; month++ {
			anchor := models.NewDate(year, month, 15)
			cells := BuildMonth(anchor, nil, "")

			require.Zero(t, len(cells)%7, "%d-%02d has %d cells", year, month, len(cells))
			assert.Equal(t, time.Monday, cells[0].Date.Weekday())
			assert.Equal(t, time.Sunday, cells[len(cells)-1].Date.Weekday())

			first, last := MonthStart(anchor), MonthEnd(anchor)
			var sawFirst, sawLast bool
			for _, c := range cells {
				if c.Date.Equal(first) {
					sawFirst = c.IsCurrentMonth
				}
				if c.Date.Equal(last) {
					sawLast = c.IsCurrentMonth
				}
			}
			assert.True(t, sawFirst, "%d-%02d first day", year, month)
			assert.True(t, sawLast, "%d-%02d last day", year, month)
		}
	}
}

func TestBuildMonth_Padding(t *testing.T) {
	tests := []struct {
		name     string
		anchor   string
		wantLen  int
		wantHead string
		wantTail string
	}{
		{"april 2025 starts tuesday", "2025-04-10", 35, "2025-03-31", "2025-05-04"},
		{"june 2025 starts sunday", "2025-06-01", 42, "2025-05-26", "2025-07-06"},
		{"august 2025 ends sunday", "2025-08-31", 35, "2025-07-28", "2025-08-31"},
		{"february 2021 fits exactly", "2021-02-02", 28, "2021-02-01", "2021-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := BuildMonth(date(t, tt.anchor), nil, "")
			require.Len(t, cells, tt.wantLen)
			assert.Equal(t, tt.wantHead, cells[0].Date.String())
			assert.Equal(t, tt.wantTail, cells[len(cells)-1].Date.String())
			assert.Equal(t, tt.wantHead[5:7] == tt.anchor[5:7], cells[0].IsCurrentMonth)
		})
	}
}

func TestBuildMonth_BothIndicators(t *testing.T) {
	events := Events{
		"2025-04-05": {
			{Title: "Design System Review", Time: "09:00 AM", Priority: PriorityLow},
			{Title: "User Research Planning", Time: "02:00 PM", Priority: PriorityHigh},
		},
		"2025-04-06": {
			{Title: "Usability Testing", Priority: PriorityHigh},
		},
	}
	cells := BuildMonth(date(t, "2025-04-01"), events, "2025-04-05")

	byDate := map[string]DayCell{}
	for _, c := range cells {
		byDate[c.Date.String()] = c
	}

	both := byDate["2025-04-05"]
	assert.True(t, both.HasHigh)
	assert.True(t, both.HasLow)
	assert.True(t, both.IsSelected)
	assert.Len(t, both.Events, 2)

	onlyHigh := byDate["2025-04-06"]
	assert.True(t, onlyHigh.HasHigh)
	assert.False(t, onlyHigh.HasLow)
	assert.False(t, onlyHigh.IsSelected)

	empty := byDate["2025-04-07"]
	assert.Empty(t, empty.Events)
	assert.False(t, empty.HasHigh || empty.HasLow)
}

func TestBuildMonth_MalformedKeysAreMisses(t *testing.T) {
	events := Events{
		"2025-4-5":   {{Title: "bad key", Priority: PriorityHigh}},
		"not a date": {{Title: "junk", Priority: PriorityLow}},
	}
	for _, c := range BuildMonth(date(t, "2025-04-01"), events, "") {
		assert.Empty(t, c.Events, c.Date.String())
	}
}

func TestEventsFromTasks_Overlap(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Title: "Design System Review", Time: "09:00 AM", StartDate: date(t, "2025-04-05"), EndDate: date(t, "2025-04-05"), Status: models.StatusDone},
		{ID: 2, Title: "User Research Planning", Time: "02:00 PM", StartDate: date(t, "2025-04-05"), EndDate: date(t, "2025-04-06"), Status: models.StatusInProgress},
	}
	events := EventsFromTasks(tasks, date(t, "2025-04-01"), date(t, "2025-04-30"))

	require.Len(t, events["2025-04-05"], 2)
	assert.Equal(t, PriorityLow, events["2025-04-05"][0].Priority)
	assert.Equal(t, PriorityHigh, events["2025-04-05"][1].Priority)

	require.Len(t, events["2025-04-06"], 1)
	assert.Equal(t, "User Research Planning", events["2025-04-06"][0].Title)

	_, ok := events["2025-04-07"]
	assert.False(t, ok)
}

func TestPriorityOf(t *testing.T) {
	assert.Equal(t, PriorityLow, PriorityOf(models.StatusDone))
	assert.Equal(t, PriorityHigh, PriorityOf(models.StatusTodo))
	assert.Equal(t, PriorityHigh, PriorityOf(models.StatusInProgress))
}
