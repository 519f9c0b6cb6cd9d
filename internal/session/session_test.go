package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness/internal/upstream"
)

func login(user, role string) upstream.LoginResponse {
	return upstream.LoginResponse{
		Access:  "a-" + user,
		Refresh: "r-" + user,
		Role:    role,
		User:    upstream.LoginUser{ID: 1, Username: user, Email: user + "@example.com"},
	}
}

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry()
	s := r.Create(login("alice", RoleHR))

	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "a-alice", s.AccessToken())
	assert.Equal(t, "r-alice", s.RefreshToken())
	assert.True(t, s.IsHR())

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	r.Delete(s.ID)
	_, err = r.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, r.Len())
}

func TestRegistry_CarriesPreviousLogin(t *testing.T) {
	r := NewRegistry()
	first := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return first }
	s1 := r.Create(login("bob", RoleEmployee))
	assert.True(t, s1.LastLogin.IsZero())

	r.now = func() time.Time { return first.AddDate(0, 0, 3) }
	s2 := r.Create(login("bob", RoleEmployee))
	assert.Equal(t, first, s2.LastLogin)
	assert.NotEqual(t, s1.ID, s2.ID)
	assert.Equal(t, 3, s2.Info(r.now()).DaysSinceLastLogin)
	assert.False(t, s2.IsHR())
}

func TestDaysSinceLastLogin(t *testing.T) {
	base := time.Date(2025, 4, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysSinceLastLogin(time.Time{}, base))
	assert.Equal(t, 0, DaysSinceLastLogin(base, base.Add(10*time.Minute)))
	assert.Equal(t, 1, DaysSinceLastLogin(base, base.Add(time.Hour)))
	assert.Equal(t, 30, DaysSinceLastLogin(base, base.AddDate(0, 0, 30)))
	assert.Equal(t, 0, DaysSinceLastLogin(base, base.Add(-time.Hour)))
}

func TestSession_TokenSwapIsSafe(t *testing.T) {
	s := NewRegistry().Create(login("carol", RoleEmployee))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetAccessToken("fresh")
		}()
		go func() {
			defer wg.Done()
			_ = s.AccessToken()
		}()
	}
	wg.Wait()
	assert.Equal(t, "fresh", s.AccessToken())
	assert.Equal(t, "r-carol", s.RefreshToken())
}
