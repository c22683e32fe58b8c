package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveAs(handler http.Handler, userID uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: userID, Role: domain.RoleUser}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(3)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	user := uuid.New()
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, serveAs(handler, user).Code, "request %d", i)
	}

	rec := serveAs(handler, user)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "20", rec.Header().Get("Retry-After"))

	// other users have their own bucket
	assert.Equal(t, http.StatusOK, serveAs(handler, uuid.New()).Code)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(60)
	defer rl.Stop()

	rl.limiterFor("old")
	rl.mu.Lock()
	rl.limiters["old"].lastAccess = time.Now().Add(-time.Hour)
	rl.mu.Unlock()
	rl.limiterFor("fresh")

	rl.evictIdle(time.Now().Add(-time.Minute))

	assert.Equal(t, 1, rl.Len())
	rl.mu.RLock()
	_, ok := rl.limiters["fresh"]
	rl.mu.RUnlock()
	assert.True(t, ok)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(10)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
