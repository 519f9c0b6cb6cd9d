// Package upstream is a typed client for the remote wellness REST API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnauthorized is returned when the API rejects the token and a
	// refresh could not recover.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidResponse is returned when a payload lacks required fields.
	ErrInvalidResponse = errors.New("invalid API response structure")
)

// StatusError is a non-2xx response other than 401.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Snippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status=%d snippet=%q", e.Method, e.Path, e.Code, e.Snippet)
}

// Credentials is the token holder the client authenticates with. A refresh
// replaces the access token in place.
type Credentials interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string)
}

// Client talks to the remote API.
type Client struct {
	baseURL      string
	organization string
	http         *http.Client
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOrganization sets the organisation id of the admin dashboard endpoint.
func WithOrganization(id string) Option {
	return func(c *Client) { c.organization = id }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		organization: "66",
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges username and password for tokens.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/login/", "", body, &out); err != nil {
		return LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	if out.Access == "" {
		return LoginResponse{}, fmt.Errorf("login: %w: missing access token", ErrInvalidResponse)
	}
	return out, nil
}

// Refresh obtains a new access token and stores it in creds.
func (c *Client) Refresh(ctx context.Context, creds Credentials) error {
	if creds.RefreshToken() == "" {
		return fmt.Errorf("refresh: %w: no refresh token", ErrUnauthorized)
	}
	var out refreshResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh/", "", refreshRequest{Token: creds.RefreshToken()}, &out); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if out.Token == "" {
		return fmt.Errorf("refresh: %w: missing token", ErrInvalidResponse)
	}
	creds.SetAccessToken(out.Token)
	return nil
}

// withRefresh runs call with the current access token. On 401 it refreshes
// the token once and, if that succeeds, retries call exactly once.
func (c *Client) withRefresh(ctx context.Context, creds Credentials, call func(token string) error) error {
	if creds == nil || creds.AccessToken() == "" {
		return fmt.Errorf("%w: authentication token not found", ErrUnauthorized)
	}
	err := call(creds.AccessToken())
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	c.logger.Info("access token rejected, refreshing")
	if rerr := c.Refresh(ctx, creds); rerr != nil {
		c.logger.Warn("token refresh failed", slog.String("error", rerr.Error()))
		return fmt.Errorf("%w: token refresh failed", ErrUnauthorized)
	}
	return call(creds.AccessToken())
}

// Dashboard returns the organisation's employee list.
func (c *Client) Dashboard(ctx context.Context, creds Credentials) ([]DashboardEmployee, error) {
	var out dashboardResponse
	path := "/admin-dashboard/" + url.PathEscape(c.organization) + "/dashboard/"
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodGet, path, token, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if out.Employees == nil {
		return nil, fmt.Errorf("dashboard: %w", ErrInvalidResponse)
	}
	return out.Employees, nil
}

// FlaggedEmployees returns the employees flagged for HR attention.
func (c *Client) FlaggedEmployees(ctx context.Context, creds Credentials) ([]FlaggedEmployee, error) {
	var out flaggedResponse
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/flagged-employees/", token, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("flagged employees: %w", err)
	}
	if out.FlaggedEmployees == nil {
		return nil, fmt.Errorf("flagged employees: %w", ErrInvalidResponse)
	}
	return out.FlaggedEmployees, nil
}

// MoodHistory returns the user's daily mood scores, oldest first.
func (c *Client) MoodHistory(ctx context.Context, creds Credentials, username string) ([]MoodEntry, error) {
	var out []MoodEntry
	path := "/employee/mood/" + url.PathEscape(username) + "/"
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodGet, path, token, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("mood history: %w", err)
	}
	return out, nil
}

// ActivityHistory returns the user's daily working hours, oldest first.
func (c *Client) ActivityHistory(ctx context.Context, creds Credentials, username string) ([]ActivityEntry, error) {
	var out []ActivityEntry
	path := "/employee/activity/" + url.PathEscape(username) + "/"
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodGet, path, token, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("activity history: %w", err)
	}
	return out, nil
}

// DepartmentHours returns average working hours per department.
func (c *Client) DepartmentHours(ctx context.Context, creds Credentials) ([]DepartmentHours, error) {
	var out departmentHoursResponse
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/department-hours/", token, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("department hours: %w", err)
	}
	return out.DepartmentAverages, nil
}

// DepartmentPerformance returns performance and reward totals per department.
func (c *Client) DepartmentPerformance(ctx context.Context, creds Credentials) ([]DepartmentPerformance, error) {
	var out []DepartmentPerformance
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/department-performance-rewards/", token, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("department performance: %w", err)
	}
	return out, nil
}

// Rewards returns the user's awards, latest first.
func (c *Client) Rewards(ctx context.Context, creds Credentials, username string) ([]Reward, error) {
	var out []Reward
	path := "/employee/rewards/" + url.PathEscape(username) + "/"
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodGet, path, token, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("rewards: %w", err)
	}
	return out, nil
}

// MoodTips asks the AI tips endpoint for suggestions for a mood score.
func (c *Client) MoodTips(ctx context.Context, creds Credentials, score int) ([]string, error) {
	var out moodTipsResponse
	req := moodTipsRequest{MoodScore: strconv.Itoa(score)}
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodPost, "/employee/ai-mood-tips/", token, req, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("mood tips: %w", err)
	}
	return out.Tips, nil
}

// Report downloads the generated employee report.
func (c *Client) Report(ctx context.Context, creds Credentials) (Report, error) {
	var out Report
	err := c.withRefresh(ctx, creds, func(token string) error {
		body, header, err := c.send(ctx, http.MethodGet, "/employee/report/", token, nil)
		if err != nil {
			return err
		}
		out = Report{ContentType: header.Get("Content-Type"), Body: body}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}
	if out.ContentType == "" {
		out.ContentType = "application/pdf"
	}
	return out, nil
}

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context, creds Credentials) (Profile, error) {
	var out profileResponse
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/employee/profile/", token, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return out.User, nil
}

// UpdateProfile saves the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, creds Credentials, p Profile) error {
	err := c.withRefresh(ctx, creds, func(token string) error {
		return c.doJSON(ctx, http.MethodPut, "/employee/profile/", token, p, nil)
	})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	b, _, err := c.send(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %v snippet=%q", ErrInvalidResponse, err, snippet(b))
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path, token string, body any) ([]byte, http.Header, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Snippet: snippet(b)}
	}
	return b, resp.Header, nil
}

func snippet(b []byte) string {
	s := string(bytes.TrimSpace(b))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}
