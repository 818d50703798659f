package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tagfilterdb/querydesk/internal/test"
	"github.com/tagfilterdb/querydesk/pkg/audit"
	"github.com/tagfilterdb/querydesk/pkg/client"
)

type executorFunc func(ctx context.Context, query string) (json.RawMessage, error)

func (f executorFunc) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	return f(ctx, query)
}

func echo(ctx context.Context, query string) (json.RawMessage, error) {
	b, _ := json.Marshal(map[string]string{"query": query})
	return b, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []audit.QueryData
	err     error
}

func (r *recordingAudit) Write(_ context.Context, q *audit.QueryData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *q)
	return r.err
}

func newController(t *testing.T, e Executor, options ...ControllerOption) (*Controller, *bytes.Buffer) {
	t.Helper()

	var output bytes.Buffer
	logger := test.DummyLogger(&output).Sugar()

	return NewController(NewState("SELECT * FROM User WHERE id = 10"), e, logger, options...), &output
}

func TestSubmitSetsLoadingSynchronously(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	c, _ := newController(t, executorFunc(func(ctx context.Context, query string) (json.RawMessage, error) {
		<-block
		return json.RawMessage(`{}`), nil
	}))

	task := c.Submit("SELECT 1")

	assert.Equal(t, StatusLoading, c.State().Status())
	assert.True(t, c.State().Loading())
	assert.Nil(t, c.State().Result())
	assert.Nil(t, c.State().Err())
	assert.Equal(t, uint64(1), c.Latest())

	close(block)
	assert.True(t, c.Complete(task(context.Background())))
	assert.False(t, c.State().Loading())
}

func TestSubmitOutcomes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       string
		code        int
		body        string
		status      Status
		result      string
		kind        client.Kind
		message     string
	}{
		{
			"successful query with rows",
			"SELECT 1",
			http.StatusOK,
			`{"rows":[1]}`,
			StatusSuccess,
			`{"rows":[1]}`,
			client.KindNone,
			``,
		},
		{
			"empty query rejected by the endpoint",
			"",
			http.StatusInternalServerError,
			`oops`,
			StatusError,
			``,
			client.KindStatus,
			`network response was not ok`,
		},
		{
			"endpoint returns invalid JSON",
			"SELECT 1",
			http.StatusOK,
			`{"rows":`,
			StatusError,
			``,
			client.KindParse,
			`unable to parse response body`,
		},
		{
			"endpoint returns an empty array",
			"SELECT * FROM User WHERE id = -1",
			http.StatusOK,
			`[]`,
			StatusSuccess,
			`[]`,
			client.KindNone,
			``,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			s, requests := test.Endpoint(t, tc.code, tc.body)
			c, _ := newController(t, client.New(s.URL))

			snapshot := c.Run(context.Background(), tc.given)

			r := <-requests
			assert.Equal(t, tc.given, r.Body)
			assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
			assert.NotEmpty(t, r.Header.Get(client.RequestIDHeader))

			assert.Equal(t, tc.status, snapshot.Status)
			assert.Equal(t, tc.kind, snapshot.Kind)
			assert.Equal(t, "SELECT * FROM User WHERE id = 10", snapshot.QueryText)

			if tc.status == StatusSuccess {
				assert.Equal(t, tc.result, string(snapshot.Result))
				assert.Empty(t, snapshot.Error)
			} else {
				assert.Nil(t, snapshot.Result)
				assert.NotEmpty(t, snapshot.Error)
				assert.Contains(t, snapshot.Error, tc.message)
			}
		})
	}
}

func TestSubmitUnreachableEndpoint(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.NotFoundHandler())
	url := s.URL
	s.Close()

	c, _ := newController(t, client.New(url))

	snapshot := c.Run(context.Background(), "SELECT 1")

	assert.Equal(t, StatusError, snapshot.Status)
	assert.Equal(t, client.KindTransport, snapshot.Kind)
	assert.Contains(t, snapshot.Error, "unable to reach query endpoint")
	assert.Nil(t, snapshot.Result)
}

func TestLatestSubmitWins(t *testing.T) {
	t.Parallel()

	c, output := newController(t, executorFunc(echo))

	first := c.Submit("A")
	second := c.Submit("B")

	a := first(context.Background())
	b := second(context.Background())

	assert.True(t, c.Complete(b))
	assert.False(t, c.Complete(a))

	assert.Equal(t, StatusSuccess, c.State().Status())
	assert.JSONEq(t, `{"query":"B"}`, string(c.State().Result()))
	assert.Contains(t, output.String(), "Discarding stale completion")
}

func TestLatestSubmitWinsWhenFirstFinishesEarly(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, executorFunc(echo))

	first := c.Submit("A")
	second := c.Submit("B")

	assert.False(t, c.Complete(first(context.Background())))
	assert.True(t, c.State().Loading(), "a stale completion must not end loading")

	assert.True(t, c.Complete(second(context.Background())))
	assert.JSONEq(t, `{"query":"B"}`, string(c.State().Result()))
}

func TestCompleteIgnoresDuplicates(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, executorFunc(echo))

	done := c.Submit("A")(context.Background())

	assert.True(t, c.Complete(done))
	assert.False(t, c.Complete(done))
	assert.False(t, c.Complete(Completion{}))
	assert.Equal(t, StatusSuccess, c.State().Status())
}

func TestSubmitIdempotent(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, executorFunc(echo))

	first := c.Run(context.Background(), "SELECT 1")
	second := c.Run(context.Background(), "SELECT 1")

	assert.Equal(t, first, second)
}

func TestSubmitAfterErrorRecovers(t *testing.T) {
	t.Parallel()

	fail := true
	c, _ := newController(t, executorFunc(func(ctx context.Context, query string) (json.RawMessage, error) {
		if fail {
			return nil, &client.StatusError{Code: http.StatusBadGateway}
		}
		return json.RawMessage(`{"ok":true}`), nil
	}))

	snapshot := c.Run(context.Background(), "SELECT 1")
	require.Equal(t, StatusError, snapshot.Status)

	fail = false
	snapshot = c.Run(context.Background(), "SELECT 1")

	assert.Equal(t, StatusSuccess, snapshot.Status)
	assert.Empty(t, snapshot.Error)
	assert.Equal(t, client.KindNone, snapshot.Kind)
}

func TestSubmitCurrent(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, executorFunc(echo))
	c.State().SetQueryText("SELECT 42")

	c.Complete(c.SubmitCurrent()(context.Background()))

	assert.JSONEq(t, `{"query":"SELECT 42"}`, string(c.State().Result()))
}

func TestOnChange(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, executorFunc(echo))

	var statuses []Status
	c.OnChange(func(s Snapshot) {
		statuses = append(statuses, s.Status)
	})

	first := c.Submit("A")
	c.Complete(c.Submit("B")(context.Background()))
	c.Complete(first(context.Background()))

	assert.Equal(t, []Status{StatusLoading, StatusLoading, StatusSuccess}, statuses)
}

func TestSubmitAudit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		err         error
		output      string
	}{
		{
			"audit entry is written",
			nil,
			``,
		},
		{
			"audit failure does not fail the submission",
			errors.New("splunk is down"),
			`Unable to audit query: splunk is down`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var seen string
			e := executorFunc(func(ctx context.Context, query string) (json.RawMessage, error) {
				seen = client.RequestID(ctx)
				return json.RawMessage(`{}`), nil
			})

			r := &recordingAudit{err: tc.err}
			c, output := newController(t, e, WithAudit(r), WithOperator("alice"))

			snapshot := c.Run(context.Background(), "SELECT 1")

			assert.Equal(t, StatusSuccess, snapshot.Status)
			require.Len(t, r.entries, 1)
			assert.Equal(t, "SELECT 1", r.entries[0].Query)
			assert.Equal(t, "alice", r.entries[0].User)
			assert.Equal(t, seen, r.entries[0].RequestID)
			assert.NotZero(t, r.entries[0].Timestamp)
			assert.Contains(t, output.String(), tc.output)
		})
	}
}

func TestNewControllerEndpoint(t *testing.T) {
	t.Parallel()

	r := &recordingAudit{}
	c := NewController(NewState(""), client.New("http://localhost:8080/compiler/plainText"),
		zap.NewNop().Sugar(), WithAudit(r))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.Submit("")(ctx)

	require.Len(t, r.entries, 1)
	assert.Equal(t, "http://localhost:8080/compiler/plainText", r.entries[0].Endpoint)
}
