package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wellness/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin authenticates against the remote API and opens a session.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("username and password are required"))
		return
	}

	login, err := s.api.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	sess := s.sessions.Create(login)
	s.logger.Info("user signed in", slog.String("user", sess.Username), slog.String("role", sess.Role))

	if s.opts.SeedDemoTasks {
		if _, err := s.store.SeedTasks(c.Request.Context(), sess.Username, models.DateOf(s.now())); err != nil {
			s.logger.Warn("seeding demo tasks failed", slog.String("user", sess.Username), slog.String("error", err.Error()))
		}
	}

	respondSuccess(c, http.StatusCreated, gin.H{"token": sess.ID, "session": sess.Info(s.now())})
}

// handleSessionInfo returns the signed-in user.
func (s *Server) handleSessionInfo(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"session": currentSession(c).Info(s.now())})
}

// handleLogout ends the session and discards its workspace.
func (s *Server) handleLogout(c *gin.Context) {
	sess := currentSession(c)
	s.workspaces.Drop(sess.ID)
	s.sessions.Delete(sess.ID)
	respondSuccess(c, http.StatusOK, gin.H{"status": "signed out"})
}
