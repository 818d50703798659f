package endpoint

import (
	"net/url"
	"os"
	"time"

	"github.com/tagfilterdb/querydesk/pkg/env"
)

const (
	DefaultURL   = "http://localhost:8080/compiler/plainText"
	DefaultQuery = "SELECT * FROM User WHERE id = 10"
)

// Env describes the query-execution endpoint the operator submits to.
// A zero Timeout means no deadline besides the transport's own.
type Env struct {
	URL      string
	Timeout  time.Duration
	Query    string
	Operator string
}

func NewEndpointEnv() *Env {
	return &Env{URL: DefaultURL, Query: DefaultQuery}
}

func (e *Env) Populate() error {
	if s := os.Getenv("QUERYDESK_ENDPOINT"); s != "" {
		u, err := url.Parse(s)
		if err != nil {
			return &env.TypeError{Name: "QUERYDESK_ENDPOINT", Err: err}
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return &env.TypeError{Name: "QUERYDESK_ENDPOINT"}
		}
		e.URL = s
	}

	if s := os.Getenv("QUERYDESK_TIMEOUT"); s != "" {
		d, err := env.ParseDuration(s)
		if err != nil {
			return &env.TypeError{Name: "QUERYDESK_TIMEOUT", Err: err}
		}
		e.Timeout = d
	}

	if s := os.Getenv("QUERYDESK_QUERY"); s != "" {
		e.Query = s
	}

	e.Operator = os.Getenv("QUERYDESK_OPERATOR")
	if e.Operator == "" {
		e.Operator = os.Getenv("USER")
	}

	return nil
}
