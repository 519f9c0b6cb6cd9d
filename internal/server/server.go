package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wellness/internal/calendar"
	"wellness/internal/chat"
	"wellness/internal/models"
	"wellness/internal/roster"
	"wellness/internal/session"
	"wellness/internal/storage/sqlite"
	"wellness/internal/tasks"
	"wellness/internal/upstream"
	"wellness/internal/workspace"
)

var (
	errForbidden   = errors.New("hr role required")
	errNoSession   = errors.New("missing session token")
	errNoEmployees = errors.New("employee not loaded")
)

// Store is the persistence the handlers need.
type Store interface {
	Ping(ctx context.Context) error
	TasksBetween(ctx context.Context, owner string, from, to models.Date) ([]models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, owner string, id int64, changes sqlite.TaskChanges) (models.Task, error)
	DeleteTask(ctx context.Context, owner string, id int64) error
	SeedTasks(ctx context.Context, owner string, anchor models.Date) (int, error)
	SetReview(ctx context.Context, owner, subject, employeeID string, reviewed bool) error
	Reviews(ctx context.Context, owner, subject string) (map[string]bool, error)
	SaveMessage(ctx context.Context, owner string, m chat.Message) error
	ListMessages(ctx context.Context, owner string) ([]chat.Message, error)
}

// Upstream is the remote wellness API.
type Upstream interface {
	Login(ctx context.Context, username, password string) (upstream.LoginResponse, error)
	Dashboard(ctx context.Context, creds upstream.Credentials) ([]upstream.DashboardEmployee, error)
	FlaggedEmployees(ctx context.Context, creds upstream.Credentials) ([]upstream.FlaggedEmployee, error)
	MoodHistory(ctx context.Context, creds upstream.Credentials, username string) ([]upstream.MoodEntry, error)
	ActivityHistory(ctx context.Context, creds upstream.Credentials, username string) ([]upstream.ActivityEntry, error)
	DepartmentHours(ctx context.Context, creds upstream.Credentials) ([]upstream.DepartmentHours, error)
	DepartmentPerformance(ctx context.Context, creds upstream.Credentials) ([]upstream.DepartmentPerformance, error)
	Rewards(ctx context.Context, creds upstream.Credentials, username string) ([]upstream.Reward, error)
	MoodTips(ctx context.Context, creds upstream.Credentials, score int) ([]string, error)
	Report(ctx context.Context, creds upstream.Credentials) (upstream.Report, error)
	Profile(ctx context.Context, creds upstream.Credentials) (upstream.Profile, error)
	UpdateProfile(ctx context.Context, creds upstream.Credentials, p upstream.Profile) error
}

// Options tunes the server.
type Options struct {
	StaticDir     string
	PageSize      int
	Seed          int64
	SeedDemoTasks bool
}

// Server provides HTTP handlers for the wellness dashboard backend.
type Server struct {
	engine     *gin.Engine
	store      Store
	api        Upstream
	sessions   *session.Registry
	workspaces *workspace.Registry
	enricher   *roster.Enricher
	logger     *slog.Logger
	opts       Options
	now        func() time.Time
}

// New constructs the HTTP server with routes and middleware configured.
func New(store Store, api Upstream, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))

	srv := &Server{
		engine:   router,
		store:    store,
		api:      api,
		sessions: session.NewRegistry(),
		enricher: roster.NewEnricher(opts.Seed),
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
	srv.workspaces = workspace.NewRegistry(func() *workspace.Workspace {
		return workspace.New(models.DateOf(srv.now()), opts.PageSize,
			calendar.WithOnSelect(func(date string) {
				logger.Debug("calendar date selected", slog.String("date", date))
			}),
			calendar.WithOnHover(func(date string) {
				logger.Debug("calendar date hovered", slog.String("date", date))
			}),
		)
	})

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.POST("/login", s.handleLogin)

		authed := api.Group("", s.requireSession)
		{
			authed.GET("/session", s.handleSessionInfo)
			authed.DELETE("/session", s.handleLogout)

			authed.GET("/calendar", s.handleCalendar)
			authed.POST("/calendar/navigate", s.handleCalendarNavigate)
			authed.POST("/calendar/select", s.handleCalendarSelect)
			authed.PUT("/calendar/hover", s.handleCalendarHover)
			authed.DELETE("/calendar/hover", s.handleCalendarLeave)

			authed.GET("/tasks", s.handleListTasks)
			authed.POST("/tasks", s.handleCreateTask)
			authed.PUT("/tasks/:id", s.handleUpdateTask)
			authed.DELETE("/tasks/:id", s.handleDeleteTask)

			authed.GET("/charts/mood", s.handleMoodChart)
			authed.GET("/charts/activity", s.handleActivityChart)
			authed.GET("/rewards", s.handleRewards)
			authed.POST("/mood-tips", s.handleMoodTips)
			authed.GET("/report", s.handleReport)
			authed.GET("/profile", s.handleProfile)
			authed.PUT("/profile", s.handleUpdateProfile)

			hr := authed.Group("", s.requireHR)
			{
				employees := hr.Group("/employees")
				{
					employees.POST("/load", s.handleLoadEmployees)
					employees.GET("", s.handleEmployeePage)
					employees.PUT("/filters", s.handleSetFilters)
					employees.DELETE("/filters", s.handleResetFilters)
					employees.PUT("/:id/reviewed", s.handleSetReviewed)
					employees.GET("/export", s.handleExportEmployees)
				}

				hr.GET("/flagged", s.handleListFlagged)
				hr.PUT("/flagged/:id/reviewed", s.handleSetFlaggedReviewed)

				hr.GET("/charts/department-hours", s.handleDepartmentHoursChart)
				hr.GET("/charts/department-performance", s.handleDepartmentPerformanceChart)

				hr.GET("/chat/contacts", s.handleChatContacts)
				hr.GET("/chat/contacts/:id/messages", s.handleChatMessages)
				hr.POST("/chat/contacts/:id/messages", s.handleSendChatMessage)
			}
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

const sessionKey = "session"

// requireSession resolves the bearer session id into the request context.
func (s *Server) requireSession(c *gin.Context) {
	raw := c.GetHeader("Authorization")
	id, ok := strings.CutPrefix(raw, "Bearer ")
	if !ok || strings.TrimSpace(id) == "" {
		s.respondError(c, http.StatusUnauthorized, errNoSession)
		c.Abort()
		return
	}
	sess, err := s.sessions.Get(strings.TrimSpace(id))
	if err != nil {
		s.respondError(c, http.StatusUnauthorized, err)
		c.Abort()
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

// requireHR rejects sessions without the HR role.
func (s *Server) requireHR(c *gin.Context) {
	if !currentSession(c).IsHR() {
		s.respondError(c, http.StatusForbidden, errForbidden)
		c.Abort()
		return
	}
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (s *Server) currentWorkspace(c *gin.Context) *workspace.Workspace {
	return s.workspaces.Get(currentSession(c).ID)
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, upstream.ErrUnauthorized), errors.Is(err, session.ErrNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, sqlite.ErrNotFound), errors.Is(err, chat.ErrUnknownContact), errors.Is(err, errNoEmployees):
		return http.StatusNotFound
	case errors.Is(err, tasks.ErrInvalidDateRange), errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, workspace.ErrStale):
		return http.StatusConflict
	case errors.Is(err, upstream.ErrInvalidResponse), errors.As(err, &statusErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// fail responds with the status statusFor picks.
func (s *Server) fail(c *gin.Context, err error) {
	s.respondError(c, statusFor(err), err)
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err == nil {
		err = fmt.Errorf("%s", http.StatusText(status))
	}
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(c.Request.Context(), level, "request failed",
		slog.String("path", c.FullPath()),
		slog.Int("status", status),
		slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
