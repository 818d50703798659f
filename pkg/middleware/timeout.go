package middleware

import (
	"net/http"
	"time"

	querydesk "github.com/tagfilterdb/querydesk/pkg"
)

const timeoutMessage = `{"error":"Request timed out"}`

// Timeout bounds the time spent on a request. The wrapped handler sees the
// deadline on its request context, so running database queries are
// cancelled too.
func Timeout(cfg *querydesk.Config, timeout time.Duration) Middleware {
	return func(h http.Handler) http.Handler {
		th := http.TimeoutHandler(h, timeout, timeoutMessage)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			th.ServeHTTP(w, r)

			if time.Since(start) >= timeout {
				cfg.Logger.Warnf("Request timed out after %s: %s %s", timeout, r.Method, r.URL.Path)
			}
		})
	}
}
