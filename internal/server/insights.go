package server

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"

	"wellness/internal/charts"
	"wellness/internal/upstream"
)

type moodTipsRequest struct {
	MoodScore int `json:"mood_score"`
}

// handleMoodChart returns the signed-in user's mood history series.
func (s *Server) handleMoodChart(c *gin.Context) {
	sess := currentSession(c)
	entries, err := s.api.MoodHistory(c.Request.Context(), sess, sess.Username)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"data": charts.Mood(entries, s.now())})
}

// handleActivityChart returns the signed-in user's working hours series.
func (s *Server) handleActivityChart(c *gin.Context) {
	sess := currentSession(c)
	entries, err := s.api.ActivityHistory(c.Request.Context(), sess, sess.Username)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"data": charts.Activity(entries, s.now())})
}

// handleDepartmentHoursChart returns average hours per department.
func (s *Server) handleDepartmentHoursChart(c *gin.Context) {
	rows, err := s.api.DepartmentHours(c.Request.Context(), currentSession(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"data": charts.DepartmentHours(rows)})
}

// handleDepartmentPerformanceChart returns performance vs rewards per department.
func (s *Server) handleDepartmentPerformanceChart(c *gin.Context) {
	rows, err := s.api.DepartmentPerformance(c.Request.Context(), currentSession(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"data": charts.DepartmentPerformance(rows)})
}

// handleRewards returns the latest award card.
func (s *Server) handleRewards(c *gin.Context) {
	sess := currentSession(c)
	rewards, err := s.api.Rewards(c.Request.Context(), sess, sess.Username)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"reward": charts.Rewards(rewards)})
}

// handleMoodTips returns one random tip for a 1-5 mood score.
func (s *Server) handleMoodTips(c *gin.Context) {
	var req moodTipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.MoodScore < 1 || req.MoodScore > 5 {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("mood_score must be between 1 and 5"))
		return
	}

	tips, err := s.api.MoodTips(c.Request.Context(), currentSession(c), req.MoodScore)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(tips) == 0 {
		s.fail(c, fmt.Errorf("mood tips: %w: no tips returned", upstream.ErrInvalidResponse))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tip": tips[rand.Intn(len(tips))]})
}

// handleReport passes the generated report through unchanged.
func (s *Server) handleReport(c *gin.Context) {
	rep, err := s.api.Report(c.Request.Context(), currentSession(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="report.pdf"`)
	c.Data(http.StatusOK, rep.ContentType, rep.Body)
}

// handleProfile returns the remote profile of the signed-in user.
func (s *Server) handleProfile(c *gin.Context) {
	profile, err := s.api.Profile(c.Request.Context(), currentSession(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": profile})
}

// handleUpdateProfile saves profile edits upstream.
func (s *Server) handleUpdateProfile(c *gin.Context) {
	var profile upstream.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.api.UpdateProfile(c.Request.Context(), currentSession(c), profile); err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": profile})
}
