// AngelaMos | 2026
// recoverer.go

package middleware

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recoverer reports panics to Sentry, then lets chi turn them into a 500.
func Recoverer(next http.Handler) http.Handler {
	reporter := sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
	return chimw.Recoverer(reporter.Handle(next))
}
