package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DummyLogger returns a debug level logger that writes plain messages to w.
// The standard library logger is redirected to it as well.
func DummyLogger(w io.Writer) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "message",
	})

	l := zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel))
	zap.RedirectStdLog(l)

	return l
}

// Request is what an Endpoint server saw for a single call.
type Request struct {
	Method string
	Header http.Header
	Body   string
}

// Endpoint starts a compiler endpoint stand-in that answers every request
// with the given status code and body. Received requests are sent to the
// returned channel, which is buffered so handlers never block on it.
func Endpoint(t testing.TB, code int, body string) (*httptest.Server, <-chan Request) {
	t.Helper()

	requests := make(chan Request, 16)

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)

		select {
		case requests <- Request{Method: r.Method, Header: r.Header.Clone(), Body: string(b)}:
		default:
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)

	return s, requests
}
