// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/config"
	"github.com/carterperez-dev/dating-api/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s stubVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return s.claims, s.err
}

func okHandler(seen *access.Caller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = access.CallerFrom(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorPlacesCaller(t *testing.T) {
	v := stubVerifier{claims: &AccessTokenClaims{
		UserID:   3,
		Username: "lisa",
		Roles:    []string{access.RoleMember},
	}}

	var seen access.Caller
	h := Authenticator(v)(okHandler(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), seen.ID)
	assert.Equal(t, "lisa", seen.Username)
}

func TestAuthenticatorRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Basic abc", nil},
		{"revoked", "Bearer abc", core.ErrTokenRevoked},
		{"expired", "Bearer abc", core.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authenticator(stubVerifier{err: tt.err})(okHandler(nil))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		caller access.Caller
		want   int
	}{
		{"anonymous", access.Caller{}, http.StatusUnauthorized},
		{"member", access.Caller{ID: 1, Roles: []string{access.RoleMember}}, http.StatusForbidden},
		{"moderator", access.Caller{ID: 2, Roles: []string{access.RoleModerator}}, http.StatusOK},
		{"admin", access.Caller{ID: 3, Roles: []string{access.RoleAdmin}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireRole(access.ModeratePhotoRole...)(okHandler(nil))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(access.WithCaller(req.Context(), tt.caller))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, got)
	assert.Equal(t, got, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", got)
}

func TestCORSPreflightAndExpose(t *testing.T) {
	cfg := config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:4200"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
		ExposedHeaders: []string{core.PaginationHeader},
		MaxAge:         300,
	}
	h := CORS(cfg)(okHandler(nil))

	req := httptest.NewRequest(http.MethodOptions, "/v1/users", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, core.PaginationHeader, rec.Header().Get("Access-Control-Expose-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type countingRecorder struct {
	mu    sync.Mutex
	calls map[int64]int
}

func (c *countingRecorder) TouchLastActive(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[id]++
	return nil
}

func TestLastActiveThrottledByRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	gate := &core.Redis{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	rec := &countingRecorder{calls: map[int64]int{}}

	h := LastActive(rec, gate, time.Minute)(okHandler(nil))
	serve := func(id int64) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(access.WithCaller(req.Context(), access.Caller{ID: id}))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	serve(1)
	serve(1)
	serve(2)
	assert.Equal(t, 1, rec.calls[1])
	assert.Equal(t, 1, rec.calls[2])

	mr.FastForward(2 * time.Minute)
	serve(1)
	assert.Equal(t, 2, rec.calls[1])
}

func TestLastActiveWithoutGateWritesEveryTime(t *testing.T) {
	rec := &countingRecorder{calls: map[int64]int{}}
	h := LastActive(rec, nil, time.Minute)(okHandler(nil))

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(access.WithCaller(req.Context(), access.Caller{ID: 9}))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 3, rec.calls[9])
	assert.Len(t, rec.calls, 1)
}

func TestLocalLimiterBlocksAfterBurst(t *testing.T) {
	l := &localLimiter{}
	limit := ParseWindow(1, 2, time.Hour)

	for range 2 {
		res, err := l.allow("k", limit)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Allowed)
	}

	res, err := l.allow("k", limit)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Allowed)
	assert.Positive(t, res.RetryAfter)
}

func TestRoleLimitsPreferVIP(t *testing.T) {
	base := ParseWindow(100, 20, time.Minute)
	rl := &RateLimiter{config: RateLimitConfig{
		Limit:      base,
		RoleLimits: map[string]redis_rate.Limit{access.RoleVIP: Scale(base, 5)},
	}}

	vip := access.Caller{ID: 1, Roles: []string{access.RoleMember, access.RoleVIP}}
	assert.Equal(t, 500, rl.limitFor(vip).Rate)
	assert.Equal(t, 100, rl.limitFor(access.Caller{ID: 2}).Rate)
}
