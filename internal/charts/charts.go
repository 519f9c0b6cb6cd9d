// Package charts turns the remote API's statistics into chart series.
package charts

import (
	"math"
	"strings"
	"time"

	"wellness/internal/upstream"
)

// ActivityColor fills the personal activity bars.
const ActivityColor = "#046A38"

// DepartmentPalette is cycled over the department hours bars.
var DepartmentPalette = []string{"#046A38", "#0A8143", "#13924C", "#1A9E54", "#27AE60", "#34C471"}

var moodLabels = map[int]string{
	1: "Very Low",
	2: "Low",
	3: "Neutral",
	4: "High",
	5: "Very High",
}

// MoodLabel names a 1-5 vibe score. Missing or out of range scores are
// "Pending".
func MoodLabel(score *float64) string {
	if score == nil {
		return "Pending"
	}
	if l, ok := moodLabels[int(math.Round(*score))]; ok {
		return l
	}
	return "Pending"
}

// LastNDays returns short weekday names for the n days ending today, oldest
// first.
func LastNDays(n int, today time.Time) []string {
	if n <= 0 {
		return []string{}
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = today.AddDate(0, 0, -(n - 1 - i)).Weekday().String()[:3]
	}
	return out
}

// MoodPoint is one day of the mood line chart.
type MoodPoint struct {
	Name  string   `json:"name"`
	Mood  *float64 `json:"mood"`
	Label string   `json:"label"`
}

// Mood labels the history with the trailing weekdays.
func Mood(entries []upstream.MoodEntry, today time.Time) []MoodPoint {
	days := LastNDays(len(entries), today)
	out := make([]MoodPoint, len(entries))
	for i, e := range entries {
		out[i] = MoodPoint{Name: days[i], Mood: e.VibeScore, Label: MoodLabel(e.VibeScore)}
	}
	return out
}

// Bar is one bar of a single-series bar chart.
type Bar struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Activity labels the working hours with the trailing weekdays.
func Activity(entries []upstream.ActivityEntry, today time.Time) []Bar {
	days := LastNDays(len(entries), today)
	out := make([]Bar, len(entries))
	for i, e := range entries {
		out[i] = Bar{Name: days[i], Value: e.WorkHours, Color: ActivityColor}
	}
	return out
}

// DepartmentHours colours the department averages from DepartmentPalette.
func DepartmentHours(rows []upstream.DepartmentHours) []Bar {
	out := make([]Bar, len(rows))
	for i, r := range rows {
		out[i] = Bar{Name: r.Department, Value: r.AverageHours, Color: DepartmentPalette[i%len(DepartmentPalette)]}
	}
	return out
}

// PerformanceRewards is one department of the performance vs rewards chart.
type PerformanceRewards struct {
	Department  string  `json:"department"`
	Performance float64 `json:"performance"`
	Rewards     float64 `json:"rewards"`
}

// DepartmentPerformance shortens names to their first word and reports
// rewards per employee. Both values are rounded to two decimals.
func DepartmentPerformance(rows []upstream.DepartmentPerformance) []PerformanceRewards {
	out := make([]PerformanceRewards, len(rows))
	for i, r := range rows {
		var perEmployee float64
		if r.EmployeeCount > 0 {
			perEmployee = r.TotalRewardPoints / float64(r.EmployeeCount)
		}
		out[i] = PerformanceRewards{
			Department:  firstWord(r.Department),
			Performance: round2(r.AvgPerformanceActivity),
			Rewards:     round2(perEmployee),
		}
	}
	return out
}

// RewardCard is the stats card of the latest award.
type RewardCard struct {
	Title     string  `json:"title"`
	Value     float64 `json:"value"`
	AwardType string  `json:"award_type"`
}

// Rewards builds the card from the latest award, if any.
func Rewards(rewards []upstream.Reward) RewardCard {
	card := RewardCard{Title: "Reward Points"}
	if len(rewards) > 0 {
		card.Value = rewards[0].RewardPoints
		card.AwardType = rewards[0].AwardType
	}
	return card
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
