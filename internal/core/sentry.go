// AngelaMos | 2026
// sentry.go

package core

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/carterperez-dev/dating-api/internal/config"
)

// InitSentry configures the global Sentry hub. With no DSN it does
// nothing and the returned flush is a no-op.
func InitSentry(cfg config.SentryConfig, app config.AppConfig) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      app.Environment,
		Release:          app.Name + "@" + app.Version,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return func() {}, fmt.Errorf("init sentry: %w", err)
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}
