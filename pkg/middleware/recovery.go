package middleware

import (
	"errors"
	"net/http"

	querydesk "github.com/tagfilterdb/querydesk/pkg"
)

func Recovery(cfg *querydesk.Config) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					err, ok := p.(error)
					if ok && errors.Is(err, http.ErrAbortHandler) {
						panic(err)
					}

					id := r.Header.Get(requestIDHeader)
					cfg.Logger.Errorw("Recovered from an error: "+panicMessage(p), "request_id", id)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"An internal error has occurred"}` + "\n"))
				}
			}()
			h.ServeHTTP(w, r)
		})
	}
}

func panicMessage(p any) string {
	switch v := p.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return "unknown panic"
	}
}
