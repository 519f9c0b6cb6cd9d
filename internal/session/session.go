// Package session holds the signed-in user context that handlers pass
// explicitly to the upstream client and the per-user workspace.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"wellness/internal/upstream"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Role values reported by the login endpoint.
const (
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

// Session is one signed-in user. It satisfies upstream.Credentials.
type Session struct {
	ID        string
	Username  string
	Email     string
	UserID    int64
	Role      string
	Flagged   bool
	Notified  bool
	CreatedAt time.Time
	LastLogin time.Time

	mu      sync.RWMutex
	access  string
	refresh string
}

var _ upstream.Credentials = (*Session)(nil)

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the refresh token issued at login.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// SetAccessToken swaps the access token after a refresh.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	s.access = token
	s.mu.Unlock()
}

// IsHR reports whether the user sees the HR dashboard.
func (s *Session) IsHR() bool {
	return s.Role == RoleHR
}

// Info is the JSON view of a session returned to the front end.
type Info struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	Flagged            bool   `json:"is_flagged"`
	Notified           bool   `json:"notified"`
	DaysSinceLastLogin int    `json:"days_since_last_login"`
}

// Info snapshots the session for output, computing the day count against now.
func (s *Session) Info(now time.Time) Info {
	return Info{
		ID:                 s.ID,
		Username:           s.Username,
		Email:              s.Email,
		Role:               s.Role,
		Flagged:            s.Flagged,
		Notified:           s.Notified,
		DaysSinceLastLogin: DaysSinceLastLogin(s.LastLogin, now),
	}
}

// DaysSinceLastLogin returns the number of whole calendar days between the
// previous login and now. A zero last login yields 0.
func DaysSinceLastLogin(last, now time.Time) int {
	if last.IsZero() || now.Before(last) {
		return 0
	}
	ly, lm, ld := last.Date()
	ny, nm, nd := now.In(last.Location()).Date()
	from := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	to := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// Registry stores live sessions by id.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	lastLogin map[string]time.Time
	now       func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		lastLogin: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Create registers a session for a successful login and returns it. The
// previous login time of the same user, if any, is carried into LastLogin.
func (r *Registry) Create(login upstream.LoginResponse) *Session {
	now := r.now()
	s := &Session{
		ID:        uuid.NewString(),
		Username:  login.User.Username,
		Email:     login.User.Email,
		UserID:    login.User.ID,
		Role:      login.Role,
		Flagged:   login.IsFlagged,
		Notified:  login.Notified,
		CreatedAt: now,
		access:    login.Access,
		refresh:   login.Refresh,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s.LastLogin = r.lastLogin[s.Username]
	r.lastLogin[s.Username] = now
	r.sessions[s.ID] = s
	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session. Unknown ids are ignored.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
