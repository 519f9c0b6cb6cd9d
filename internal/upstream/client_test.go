package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCreds struct {
	access  string
	refresh string
}

func (c *testCreds) AccessToken() string        { return c.access }
func (c *testCreds) RefreshToken() string       { return c.refresh }
func (c *testCreds) SetAccessToken(tok string) { c.access = tok }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDashboard_RetriesOnceAfterRefresh(t *testing.T) {
	var calls, refreshes int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh/":
			atomic.AddInt32(&refreshes, 1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "r1", body["token"])
			writeJSON(w, http.StatusOK, map[string]string{"token": "fresh"})
		case "/admin-dashboard/66/dashboard/":
			atomic.AddInt32(&calls, 1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"employees": []map[string]any{{"username": "alice", "company_id": "E1", "reward_points": 10}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	creds := &testCreds{access: "stale", refresh: "r1"}
	employees, err := New(srv.URL).Dashboard(context.Background(), creds)

	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "E1", employees[0].CompanyID)
	require.NotNil(t, employees[0].RewardPoints)
	assert.Equal(t, 10.0, *employees[0].RewardPoints)
	assert.Nil(t, employees[0].LeavesTaken)
	assert.Equal(t, "fresh", creds.access)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
}

func TestDashboard_SecondUnauthorizedIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh/" {
			writeJSON(w, http.StatusOK, map[string]string{"token": "still-bad"})
			return
		}
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Dashboard(context.Background(), &testCreds{access: "stale", refresh: "r1"})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDashboard_RefreshFailureSurfacesUnauthorized(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh/" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := &testCreds{access: "stale", refresh: "r1"}
	_, err := New(srv.URL).Dashboard(context.Background(), creds)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "stale", creds.access)
}

func TestDashboard_MissingEmployeesIsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"something": "else"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Dashboard(context.Background(), &testCreds{access: "ok"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestNoTokenFailsWithoutRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FlaggedEmployees(context.Background(), &testCreds{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestStatusErrorCarriesSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).DepartmentHours(context.Background(), &testCreds{access: "ok"})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Contains(t, se.Snippet, "upstream down")
}

func TestLoginAndMoodTips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			writeJSON(w, http.StatusOK, map[string]any{
				"access": "a1", "refresh": "r1", "role": "hr", "is_flagged": true,
				"user": map[string]any{"username": "alice"},
			})
		case "/employee/ai-mood-tips/":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "3", body["mood_score"])
			writeJSON(w, http.StatusOK, map[string]any{"tips": []string{"take a walk"}})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	login, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", login.User.Username)
	assert.True(t, login.IsFlagged)

	tips, err := c.MoodTips(context.Background(), &testCreds{access: login.Access}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"take a walk"}, tips)
}

func TestReportKeepsBinaryBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	rep, err := New(srv.URL).Report(context.Background(), &testCreds{access: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", rep.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), rep.Body)
}
