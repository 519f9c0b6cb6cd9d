package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"wellness/internal/calendar"
	"wellness/internal/models"
	"wellness/internal/storage/sqlite"
	"wellness/internal/tasks"
)

type taskRequest struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Time        *string `json:"time"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      *string `json:"status"`
}

// changes converts the request into store changes, validating dates and
// status spellings.
func (r taskRequest) changes() (sqlite.TaskChanges, error) {
	ch := sqlite.TaskChanges{
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		Time:        r.Time,
	}
	if r.StartDate != nil {
		d, err := models.ParseDate(*r.StartDate)
		if err != nil {
			return ch, err
		}
		ch.StartDate = &d
	}
	if r.EndDate != nil {
		d, err := models.ParseDate(*r.EndDate)
		if err != nil {
			return ch, err
		}
		ch.EndDate = &d
	}
	if r.Status != nil {
		st, ok := models.ParseTaskStatus(*r.Status)
		if !ok {
			return ch, fmt.Errorf("unknown status %q", *r.Status)
		}
		ch.Status = &st
	}
	return ch, nil
}

// handleListTasks returns the tasks on one date, filtered by status. The
// date defaults to the calendar selection; ?shift=prev|next moves it a day.
func (s *Server) handleListTasks(c *gin.Context) {
	var date models.Date
	if raw := c.Query("date"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		date = d
	} else {
		_ = s.currentWorkspace(c).Calendar(func(v *calendar.View) error {
			d, err := models.ParseDate(v.Selected())
			if err == nil {
				date = d
			}
			return nil
		})
		if date.IsZero() {
			date = models.DateOf(s.now())
		}
	}
	if shift := c.Query("shift"); shift != "" {
		d, err := tasks.ShiftDay(date, shift)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		date = d
	}

	status := c.DefaultQuery("status", tasks.StatusAll)
	list, err := s.store.TasksBetween(c.Request.Context(), currentSession(c).Username, date, date)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	list = tasks.FilterByStatus(tasks.OnDate(list, date), status)
	respondSuccess(c, http.StatusOK, gin.H{"date": date, "status": status, "tasks": list})
}

// handleCreateTask inserts a new task for the signed-in user.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	if req.StartDate == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("start_date is required"))
		return
	}
	if req.EndDate == nil {
		req.EndDate = req.StartDate
	}
	ch, err := req.changes()
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	t := models.Task{
		Owner:       currentSession(c).Username,
		Title:       *req.Title,
		Category:    getString(req.Category),
		Description: getString(req.Description),
		Time:        getString(req.Time),
		StartDate:   *ch.StartDate,
		EndDate:     *ch.EndDate,
	}
	if ch.Status != nil {
		t.Status = *ch.Status
	}

	task, err := s.store.CreateTask(c.Request.Context(), t)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask updates task fields such as status or dates.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	ch, err := req.changes()
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.store.UpdateTask(c.Request.Context(), currentSession(c).Username, id, ch)
	if err != nil {
		s.respondError(c, statusOrBadRequest(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), currentSession(c).Username, id); err != nil {
		s.respondError(c, statusOrBadRequest(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// statusOrBadRequest treats unmapped store errors as validation failures.
func statusOrBadRequest(err error) int {
	if st := statusFor(err); st != http.StatusInternalServerError {
		return st
	}
	return http.StatusBadRequest
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
