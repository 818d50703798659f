package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	querydesk "github.com/tagfilterdb/querydesk/pkg"
	"github.com/tagfilterdb/querydesk/pkg/audit"
)

// Audit records every query received before it reaches the database. The
// request body is buffered and made available to the next handler under
// ContextKeyQuery. Requests that arrive without an X-Request-ID get one.
func Audit(cfg *querydesk.Config) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()

			var b bytes.Buffer

			if _, err := io.Copy(&b, r.Body); err != nil {
				cfg.Logger.Errorf("Unable to copy request body: %s", err)
				http.Error(w, "An internal error has occurred", http.StatusInternalServerError)
				return
			}
			_ = r.Body.Close()

			r.Body = io.NopCloser(bytes.NewReader(b.Bytes()))

			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(requestIDHeader, id)
			}
			w.Header().Set(requestIDHeader, id)

			ctx := context.WithValue(r.Context(), ContextKeyQuery, b.String())
			ctx = context.WithValue(ctx, ContextKeyRequestID, id)

			if cfg.Audit != nil {
				query := &audit.QueryData{
					Query:     b.String(),
					User:      r.Header.Get(forwardedUserHeader),
					RequestID: id,
					Endpoint:  r.URL.Path,
					Timestamp: now.Unix(),
				}
				if err := cfg.Audit.Write(ctx, query); err != nil {
					cfg.Logger.Errorf("Unable to write audit: %s", err)
					http.Error(w, "An internal error has occurred", http.StatusInternalServerError)
					return
				}
			}

			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
