package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wellness/internal/export"
	"wellness/internal/models"
	"wellness/internal/roster"
	"wellness/internal/storage/sqlite"
)

type reviewedRequest struct {
	Reviewed *bool `json:"reviewed"`
}

type employeePageResponse struct {
	roster.Page
	Filters roster.Filters `json:"filters"`
	Loaded  bool           `json:"loaded"`
}

func (s *Server) employeePage(c *gin.Context, page roster.Page) employeePageResponse {
	ws := s.currentWorkspace(c)
	return employeePageResponse{Page: page, Filters: ws.Roster().Filters(), Loaded: ws.RosterLoaded()}
}

// handleLoadEmployees fetches and enriches the roster once. Saved review
// decisions take precedence over the enriched flags.
func (s *Server) handleLoadEmployees(c *gin.Context) {
	sess := currentSession(c)
	ws := s.currentWorkspace(c)

	page, err := ws.LoadRoster(c.Request.Context(), func(ctx context.Context) ([]models.Employee, error) {
		raw, err := s.api.Dashboard(ctx, sess)
		if err != nil {
			return nil, err
		}
		employees := s.enricher.Dashboard(raw)
		saved, err := s.store.Reviews(ctx, sess.Username, sqlite.SubjectEmployee)
		if err != nil {
			return nil, err
		}
		for i := range employees {
			if reviewed, ok := saved[employees[i].ID]; ok {
				employees[i].Reviewed = reviewed
			}
		}
		return employees, nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info("roster loaded", slog.String("user", sess.Username), slog.Int("employees", page.Total))
	respondSuccess(c, http.StatusOK, s.employeePage(c, page))
}

// handleEmployeePage returns the current page, moving to ?page= when it is in
// range.
func (s *Server) handleEmployeePage(c *gin.Context) {
	browser := s.currentWorkspace(c).Roster()
	page := browser.Current()
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid page %q", raw))
			return
		}
		page, _ = browser.GoTo(n)
	}
	respondSuccess(c, http.StatusOK, s.employeePage(c, page))
}

// handleSetFilters replaces the active filters and returns to page one.
func (s *Server) handleSetFilters(c *gin.Context) {
	var form roster.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	filters, err := roster.ParseFilters(form)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	page := s.currentWorkspace(c).Roster().SetFilters(filters)
	respondSuccess(c, http.StatusOK, s.employeePage(c, page))
}

// handleResetFilters clears every filter in one step.
func (s *Server) handleResetFilters(c *gin.Context) {
	page := s.currentWorkspace(c).Roster().Reset()
	respondSuccess(c, http.StatusOK, s.employeePage(c, page))
}

// handleSetReviewed toggles the reviewed flag locally, then saves it. A failed
// save rolls the local flag back.
func (s *Server) handleSetReviewed(c *gin.Context) {
	var req reviewedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Reviewed == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("reviewed is required"))
		return
	}

	id := c.Param("id")
	browser := s.currentWorkspace(c).Roster()
	before, ok := findEmployee(browser.Employees(), id)
	if !ok {
		s.fail(c, fmt.Errorf("employee %s: %w", id, errNoEmployees))
		return
	}

	employee, _ := browser.SetReviewed(id, *req.Reviewed)
	if err := s.store.SetReview(c.Request.Context(), currentSession(c).Username, sqlite.SubjectEmployee, id, *req.Reviewed); err != nil {
		browser.SetReviewed(id, before.Reviewed)
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"employee": employee, "page": s.employeePage(c, browser.Current())})
}

func findEmployee(employees []models.Employee, id string) (models.Employee, bool) {
	for _, e := range employees {
		if e.ID == id {
			return e, true
		}
	}
	return models.Employee{}, false
}

// handleExportEmployees downloads the filtered roster as a workbook.
func (s *Server) handleExportEmployees(c *gin.Context) {
	var buf bytes.Buffer
	if err := export.RosterWorkbook(&buf, s.currentWorkspace(c).Roster().Filtered()); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// handleListFlagged refreshes and returns the flagged review queue.
func (s *Server) handleListFlagged(c *gin.Context) {
	sess := currentSession(c)
	flagged, err := s.currentWorkspace(c).LoadFlagged(c.Request.Context(), func(ctx context.Context) ([]models.FlaggedEmployee, error) {
		raw, err := s.api.FlaggedEmployees(ctx, sess)
		if err != nil {
			return nil, err
		}
		out := s.enricher.Flagged(raw)
		saved, err := s.store.Reviews(ctx, sess.Username, sqlite.SubjectFlagged)
		if err != nil {
			return nil, err
		}
		for i := range out {
			if reviewed, ok := saved[strconv.FormatInt(out[i].ID, 10)]; ok {
				out[i].Reviewed = reviewed
			}
		}
		return out, nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"flagged_employees": flagged})
}

// handleSetFlaggedReviewed marks a flagged employee as reviewed or not.
func (s *Server) handleSetFlaggedReviewed(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req reviewedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Reviewed == nil {
		s.respondError(c, http.StatusBadRequest, errors.New("reviewed is required"))
		return
	}

	ws := s.currentWorkspace(c)
	before, found := findFlagged(ws.Flagged(), id)
	if !found {
		s.fail(c, fmt.Errorf("flagged employee %d: %w", id, errNoEmployees))
		return
	}
	employee, _ := ws.SetFlaggedReviewed(id, *req.Reviewed)
	if err := s.store.SetReview(c.Request.Context(), currentSession(c).Username, sqlite.SubjectFlagged, strconv.FormatInt(id, 10), *req.Reviewed); err != nil {
		ws.SetFlaggedReviewed(id, before.Reviewed)
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"employee": employee})
}

func findFlagged(flagged []models.FlaggedEmployee, id int64) (models.FlaggedEmployee, bool) {
	for _, f := range flagged {
		if f.ID == id {
			return f, true
		}
	}
	return models.FlaggedEmployee{}, false
}
