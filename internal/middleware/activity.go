// AngelaMos | 2026
// activity.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/carterperez-dev/dating-api/internal/access"
)

type ActivityRecorder interface {
	TouchLastActive(ctx context.Context, userID int64) error
}

// ActivityGate decides whether a write for key is due. A nil gate lets
// every write through.
type ActivityGate interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// LastActive stamps the caller's last_active after the request, at most
// once per throttle window when a gate is configured.
func LastActive(
	recorder ActivityRecorder,
	gate ActivityGate,
	throttle time.Duration,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			caller := access.CallerFrom(r.Context())
			if !caller.IsAuthenticated() {
				return
			}

			ctx := context.WithoutCancel(r.Context())

			if gate != nil && throttle > 0 {
				key := "activity:" + strconv.FormatInt(caller.ID, 10)
				due, err := gate.Acquire(ctx, key, throttle)
				if err != nil {
					slog.Warn("activity gate unavailable", "error", err)
				} else if !due {
					return
				}
			}

			if err := recorder.TouchLastActive(ctx, caller.ID); err != nil {
				slog.Error("update last active",
					"user_id", caller.ID,
					"error", err,
				)
			}
		})
	}
}
