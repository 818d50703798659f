package middleware

import (
	"net/http"

	"github.com/tagfilterdb/querydesk/pkg/client"
)

type ctxKey string

const (
	ContextKeyQuery     ctxKey = "query"
	ContextKeyRequestID ctxKey = "requestID"
)

const (
	forwardedUserHeader = "X-Forwarded-User"
	requestIDHeader     = client.RequestIDHeader
)

type Middleware func(http.Handler) http.Handler
