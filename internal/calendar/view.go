package calendar

import (
	"wellness/internal/models"
)

// Rect is a cell's bounding box in viewport coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Point is a position in page coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Popup is the click popup anchored below a selected cell.
type Popup struct {
	Visible  bool          `json:"visible"`
	Date     string        `json:"date,omitempty"`
	Position Point         `json:"position"`
	Events   []EventMarker `json:"events,omitempty"`
}

// Option configures a View.
type Option func(*View)

// WithOnSelect registers the date-selected callback.
func WithOnSelect(fn func(date string)) Option {
	return func(v *View) { v.onSelect = fn }
}

// WithOnHover registers a callback invoked when a cell becomes hovered.
func WithOnHover(fn func(date string)) Option {
	return func(v *View) { v.onHover = fn }
}

// View holds the interactive state of one calendar: displayed month, selected
// date, hovered date and the click popup. It is not safe for concurrent use.
type View struct {
	anchor   models.Date
	selected string
	hovered  string
	popup    Popup
	events   Events
	onSelect func(string)
	onHover  func(string)
}

// NewView creates a view displaying the month containing anchor.
func NewView(anchor models.Date, opts ...Option) *View {
	v := &View{anchor: MonthStart(anchor), selected: anchor.String()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Month returns the first day of the displayed month.
func (v *View) Month() models.Date { return v.anchor }

// Title formats the displayed month as "January 2006".
func (v *View) Title() string { return v.anchor.Format("January 2006") }

// Selected returns the selected ISO date.
func (v *View) Selected() string { return v.selected }

// SetEvents replaces the event mapping used for projection.
func (v *View) SetEvents(events Events) { v.events = events }

// Cells projects the current state onto the month grid.
func (v *View) Cells() []DayCell {
	return BuildMonth(v.anchor, v.events, v.selected)
}

// PrevMonth moves the display one calendar month back.
func (v *View) PrevMonth() { v.anchor = MonthStart(v.anchor).AddMonths(-1) }

// NextMonth moves the display one calendar month forward.
func (v *View) NextMonth() { v.anchor = MonthStart(v.anchor).AddMonths(1) }

// Show jumps to the month containing d.
func (v *View) Show(d models.Date) { v.anchor = MonthStart(d) }

// Select marks date as selected, notifies the date-selected callback and opens
// the popup below the cell when the date has events; otherwise it closes it.
func (v *View) Select(date models.Date, cell Rect, scroll Point) Popup {
	key := date.String()
	v.selected = key
	if v.onSelect != nil {
		v.onSelect(key)
	}

	markers := v.events.For(date)
	if len(markers) == 0 {
		v.popup = Popup{}
		return v.popup
	}
	v.popup = Popup{
		Visible:  true,
		Date:     key,
		Position: Point{X: cell.Left + scroll.X, Y: cell.Bottom + scroll.Y},
		Events:   markers,
	}
	return v.popup
}

// Popup returns the current click popup.
func (v *View) Popup() Popup { return v.popup }

// ClosePopup hides the click popup.
func (v *View) ClosePopup() { v.popup = Popup{} }

// Hover makes date the single hovered cell.
func (v *View) Hover(date models.Date) {
	v.hovered = date.String()
	if v.onHover != nil {
		v.onHover(v.hovered)
	}
}

// Leave clears the hovered cell.
func (v *View) Leave() { v.hovered = "" }

// Hovered returns the hovered ISO date, if any.
func (v *View) Hovered() (string, bool) { return v.hovered, v.hovered != "" }

// HoverPreview returns the hovered cell's markers; nil when nothing is hovered
// or the hovered date has no events.
func (v *View) HoverPreview() []EventMarker {
	if v.hovered == "" {
		return nil
	}
	return v.events[v.hovered]
}
