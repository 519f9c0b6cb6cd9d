package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness/internal/models"
	"wellness/internal/upstream"
)

// Saturday.
var today = time.Date(2025, 4, 5, 12, 0, 0, 0, time.UTC)

func TestLastNDays(t *testing.T) {
	assert.Equal(t, []string{"Wed", "Thu", "Fri", "Sat"}, LastNDays(4, today))
	assert.Equal(t, []string{"Sat"}, LastNDays(1, today))
	assert.Empty(t, LastNDays(0, today))
}

func TestMood(t *testing.T) {
	got := Mood([]upstream.MoodEntry{{VibeScore: models.Float(2)}, {}, {VibeScore: models.Float(4.6)}}, today)
	require.Len(t, got, 3)
	assert.Equal(t, MoodPoint{Name: "Thu", Mood: models.Float(2), Label: "Low"}, got[0])
	assert.Equal(t, "Pending", got[1].Label)
	assert.Nil(t, got[1].Mood)
	assert.Equal(t, "Very High", got[2].Label)
	assert.Equal(t, "Pending", MoodLabel(models.Float(9)))
}

func TestActivity(t *testing.T) {
	got := Activity([]upstream.ActivityEntry{{WorkHours: 7.5}, {WorkHours: 8}}, today)
	assert.Equal(t, []Bar{
		{Name: "Fri", Value: 7.5, Color: ActivityColor},
		{Name: "Sat", Value: 8, Color: ActivityColor},
	}, got)
}

func TestDepartmentHours_CyclesPalette(t *testing.T) {
	rows := make([]upstream.DepartmentHours, 8)
	for i := range rows {
		rows[i] = upstream.DepartmentHours{Department: "D", AverageHours: float64(i)}
	}
	got := DepartmentHours(rows)
	assert.Equal(t, "#046A38", got[0].Color)
	assert.Equal(t, "#34C471", got[5].Color)
	assert.Equal(t, "#046A38", got[6].Color)
	assert.Equal(t, "#0A8143", got[7].Color)
}

func TestDepartmentPerformance(t *testing.T) {
	got := DepartmentPerformance([]upstream.DepartmentPerformance{
		{Department: "Human Resources", AvgPerformanceActivity: 71.23456, TotalRewardPoints: 100, EmployeeCount: 3},
		{Department: "Sales", AvgPerformanceActivity: 50, TotalRewardPoints: 10, EmployeeCount: 0},
	})
	assert.Equal(t, []PerformanceRewards{
		{Department: "Human", Performance: 71.23, Rewards: 33.33},
		{Department: "Sales", Performance: 50, Rewards: 0},
	}, got)
}

func TestRewards(t *testing.T) {
	assert.Equal(t, RewardCard{Title: "Reward Points"}, Rewards(nil))
	card := Rewards([]upstream.Reward{{AwardType: "Star Performer", RewardPoints: 120}, {AwardType: "old", RewardPoints: 1}})
	assert.Equal(t, 120.0, card.Value)
	assert.Equal(t, "Star Performer", card.AwardType)
}
