package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wellness/internal/calendar"
	"wellness/internal/models"
	"wellness/internal/workspace"
)

type calendarResponse struct {
	Month    string                 `json:"month"`
	Title    string                 `json:"title"`
	Selected string                 `json:"selected"`
	Cells    []calendar.DayCell     `json:"cells"`
	Popup    calendar.Popup         `json:"popup"`
	Hovered  string                 `json:"hovered,omitempty"`
	Preview  []calendar.EventMarker `json:"preview,omitempty"`
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

type selectRequest struct {
	Date   string         `json:"date"`
	Rect   calendar.Rect  `json:"rect"`
	Scroll calendar.Point `json:"scroll"`
}

type hoverRequest struct {
	Date string `json:"date"`
}

// renderCalendar applies move (which may change the displayed month), loads
// the events of the resulting grid, then applies interact and snapshots the
// view. Either step may be nil.
func (s *Server) renderCalendar(c *gin.Context, move, interact func(v *calendar.View)) (calendarResponse, error) {
	ws := s.currentWorkspace(c)

	var month models.Date
	_ = ws.Calendar(func(v *calendar.View) error {
		if move != nil {
			move(v)
		}
		month = v.Month()
		return nil
	})

	from, to := calendar.GridBounds(month)
	list, err := s.store.TasksBetween(c.Request.Context(), currentSession(c).Username, from, to)
	if err != nil {
		return calendarResponse{}, err
	}
	events := calendar.EventsFromTasks(list, from, to)

	var out calendarResponse
	err = ws.Calendar(func(v *calendar.View) error {
		if !v.Month().Equal(month) {
			return fmt.Errorf("calendar moved during load: %w", workspace.ErrStale)
		}
		v.SetEvents(events)
		if interact != nil {
			interact(v)
		}
		out = snapshot(v)
		return nil
	})
	return out, err
}

func snapshot(v *calendar.View) calendarResponse {
	out := calendarResponse{
		Month:    v.Month().Format("2006-01"),
		Title:    v.Title(),
		Selected: v.Selected(),
		Cells:    v.Cells(),
		Popup:    v.Popup(),
	}
	if h, ok := v.Hovered(); ok {
		out.Hovered = h
		out.Preview = v.HoverPreview()
	}
	return out
}

// handleCalendar returns the displayed month, jumping to ?month=yyyy-MM.
func (s *Server) handleCalendar(c *gin.Context) {
	var move func(v *calendar.View)
	if raw := c.Query("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid month %q", raw))
			return
		}
		move = func(v *calendar.View) { v.Show(models.DateOf(t)) }
	}

	out, err := s.renderCalendar(c, move, nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out)
}

// handleCalendarNavigate moves one month back or forward.
func (s *Server) handleCalendarNavigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	var move func(v *calendar.View)
	switch req.Direction {
	case "prev":
		move = (*calendar.View).PrevMonth
	case "next":
		move = (*calendar.View).NextMonth
	default:
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("direction must be prev or next"))
		return
	}

	out, err := s.renderCalendar(c, move, nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out)
}

// handleCalendarSelect selects a date and opens its popup below the cell.
func (s *Server) handleCalendarSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	out, err := s.renderCalendar(c, nil, func(v *calendar.View) {
		v.Select(date, req.Rect, req.Scroll)
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out)
}

// handleCalendarHover marks the hovered cell.
func (s *Server) handleCalendarHover(c *gin.Context) {
	var req hoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	out, err := s.renderCalendar(c, nil, func(v *calendar.View) { v.Hover(date) })
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out)
}

// handleCalendarLeave clears the hovered cell.
func (s *Server) handleCalendarLeave(c *gin.Context) {
	out, err := s.renderCalendar(c, nil, (*calendar.View).Leave)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out)
}
