package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_SelectOpensPopupBelowCell(t *testing.T) {
	var selected []string
	v := NewView(date(t, "2025-04-01"), WithOnSelect(func(d string) { selected = append(selected, d) }))
	v.SetEvents(Events{
		"2025-04-05": {{Title: "Design System Review", Time: "09:00 AM", Priority: PriorityLow}},
	})

	popup := v.Select(date(t, "2025-04-05"), Rect{Left: 120, Top: 40, Right: 160, Bottom: 80}, Point{X: 0, Y: 300})

	require.True(t, popup.Visible)
	assert.Equal(t, Point{X: 120, Y: 380}, popup.Position)
	assert.Equal(t, "2025-04-05", popup.Date)
	assert.Len(t, popup.Events, 1)
	assert.Equal(t, []string{"2025-04-05"}, selected)
	assert.Equal(t, "2025-04-05", v.Selected())

	popup = v.Select(date(t, "2025-04-09"), Rect{Left: 10, Bottom: 20}, Point{})
	assert.False(t, popup.Visible)
	assert.False(t, v.Popup().Visible)
	assert.Equal(t, []string{"2025-04-05", "2025-04-09"}, selected)
}

func TestView_HoverTracksSingleCell(t *testing.T) {
	var hovered []string
	v := NewView(date(t, "2025-04-01"), WithOnHover(func(d string) { hovered = append(hovered, d) }))
	v.SetEvents(Events{
		"2025-04-06": {{Title: "Stakeholder Meeting", Priority: PriorityLow}},
	})

	_, ok := v.Hovered()
	assert.False(t, ok)

	v.Hover(date(t, "2025-04-05"))
	v.Hover(date(t, "2025-04-06"))
	got, ok := v.Hovered()
	require.True(t, ok)
	assert.Equal(t, "2025-04-06", got)
	assert.Len(t, v.HoverPreview(), 1)
	assert.Equal(t, []string{"2025-04-05", "2025-04-06"}, hovered)

	v.Leave()
	_, ok = v.Hovered()
	assert.False(t, ok)
	assert.Nil(t, v.HoverPreview())
}

func TestView_HoverAndPopupAreIndependent(t *testing.T) {
	v := NewView(date(t, "2025-04-01"))
	v.SetEvents(Events{
		"2025-04-05": {{Title: "a", Priority: PriorityHigh}},
		"2025-04-06": {{Title: "b", Priority: PriorityLow}},
	})

	v.Select(date(t, "2025-04-05"), Rect{}, Point{})
	v.Hover(date(t, "2025-04-06"))

	assert.True(t, v.Popup().Visible)
	assert.Equal(t, "2025-04-05", v.Popup().Date)
	assert.Equal(t, "b", v.HoverPreview()[0].Title)

	v.Leave()
	assert.True(t, v.Popup().Visible)
}

func TestView_MonthNavigation(t *testing.T) {
	v := NewView(date(t, "2025-01-31"))
	assert.Equal(t, "2025-01-01", v.Month().String())
	assert.Equal(t, "January 2025", v.Title())

	v.NextMonth()
	assert.Equal(t, "2025-02-01", v.Month().String())

	v.PrevMonth()
	v.PrevMonth()
	assert.Equal(t, "2024-12-01", v.Month().String())

	v.Show(date(t, "2026-07-19"))
	assert.Equal(t, "2026-07-01", v.Month().String())
	assert.Len(t, v.Cells(), 35)
}
