package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tagfilterdb/querydesk/pkg/version"
)

const (
	RequestIDHeader = "X-Request-ID"

	contentType    = "text/plain"
	connectTimeout = 5 * time.Second
)

type ctxKey string

const contextKeyRequestID ctxKey = "requestID"

// WithRequestID attaches an identifier that Execute sends in the
// X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// Client talks to a query-execution endpoint: the query text goes out as a
// plain-text POST body, a JSON document comes back.
type Client struct {
	endpoint string
	timeout  time.Duration

	client *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.SetHTTPClient(client)
	}
}

// WithTimeout bounds a whole round trip, body included. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func New(endpoint string, options ...Option) *Client {
	c := &Client{endpoint: endpoint}

	c.client = &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
		},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Client) SetHTTPClient(client *http.Client) {
	c.client = client
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Execute sends query unmodified and returns the response body when the
// endpoint answers 2xx with valid JSON. Every failure is a *TransportError,
// a *StatusError or a *ParseError.
func (c *Client) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("unable to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", fmt.Sprintf("querydesk/%s", version.Version()))
	if id := RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("unable to read response body: %w", err)}
	}

	var result json.RawMessage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &ParseError{Err: err}
	}

	return result, nil
}
