package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tagfilterdb/querydesk/pkg/audit"
	"github.com/tagfilterdb/querydesk/pkg/client"
)

// Executor runs a query against a remote endpoint. *client.Client is the
// production implementation.
type Executor interface {
	Execute(ctx context.Context, query string) (json.RawMessage, error)
}

var _ Executor = (*client.Client)(nil)

// Completion is the outcome of a Task, tagged with the sequence number of
// the submission that produced it.
type Completion struct {
	Seq       uint64
	RequestID string
	Query     string
	Result    json.RawMessage
	Err       error
	Elapsed   time.Duration
}

// Task performs the network round trip of a single submission. It never
// touches State and is safe to run on any goroutine.
type Task func(ctx context.Context) Completion

type Controller struct {
	state    *State
	executor Executor
	logger   *zap.SugaredLogger
	audit    audit.Audit
	operator string
	endpoint string

	seq       uint64
	observers []func(Snapshot)
}

type ControllerOption func(*Controller)

func WithAudit(a audit.Audit) ControllerOption {
	return func(c *Controller) {
		c.audit = a
	}
}

// WithOperator sets the user name recorded in audit entries.
func WithOperator(name string) ControllerOption {
	return func(c *Controller) {
		c.operator = name
	}
}

func NewController(state *State, executor Executor, logger *zap.SugaredLogger, options ...ControllerOption) *Controller {
	c := &Controller{
		state:    state,
		executor: executor,
		logger:   logger,
	}

	if e, ok := executor.(interface{ Endpoint() string }); ok {
		c.endpoint = e.Endpoint()
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Controller) State() *State {
	return c.state
}

// Latest is the sequence number of the most recent submission, zero when
// nothing was submitted yet.
func (c *Controller) Latest() uint64 {
	return c.seq
}

// OnChange registers fn to be called after every transition the controller
// applies. Callbacks run on the goroutine that owns the controller.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.observers = append(c.observers, fn)
}

// Submit moves the state to loading and returns the Task that performs the
// request. The state is updated before Submit returns; the outcome is
// applied only when the Task's Completion is handed back to Complete.
func (c *Controller) Submit(text string) Task {
	c.seq++
	seq := c.seq
	id := uuid.NewString()

	c.state.begin()
	c.notify()

	c.logger.Debugw("Submitting query", "seq", seq, "request_id", id)

	return func(ctx context.Context) Completion {
		ctx = client.WithRequestID(ctx, id)

		if c.audit != nil {
			err := c.audit.Write(ctx, &audit.QueryData{
				Query:     text,
				User:      c.operator,
				RequestID: id,
				Endpoint:  c.endpoint,
				Timestamp: time.Now().Unix(),
			})
			if err != nil {
				c.logger.Warnf("Unable to audit query: %s", err)
			}
		}

		started := time.Now()
		result, err := c.executor.Execute(ctx, text)

		return Completion{
			Seq:       seq,
			RequestID: id,
			Query:     text,
			Result:    result,
			Err:       err,
			Elapsed:   time.Since(started),
		}
	}
}

// SubmitCurrent submits the query text currently held by the state.
func (c *Controller) SubmitCurrent() Task {
	return c.Submit(c.state.QueryText())
}

// Complete applies done if it belongs to the latest submission and reports
// whether it did. Completions of superseded submissions are dropped.
func (c *Controller) Complete(done Completion) bool {
	if done.Seq == 0 || done.Seq != c.seq || !c.state.Loading() {
		c.logger.Debugw("Discarding stale completion",
			"seq", done.Seq, "latest", c.seq, "request_id", done.RequestID)
		return false
	}

	if done.Err != nil {
		c.logger.Infow("Query failed",
			"seq", done.Seq, "request_id", done.RequestID,
			"kind", client.KindOf(done.Err).String(), "elapsed", done.Elapsed, "error", done.Err)
		c.state.fail(done.Err)
	} else {
		c.logger.Infow("Query succeeded",
			"seq", done.Seq, "request_id", done.RequestID, "elapsed", done.Elapsed)
		c.state.succeed(done.Result)
	}

	c.notify()

	return true
}

// Run submits text and applies its outcome on the calling goroutine. It is
// meant for callers that own the controller and have nothing else to do
// while the request is in flight.
func (c *Controller) Run(ctx context.Context, text string) Snapshot {
	task := c.Submit(text)
	c.Complete(task(ctx))
	return c.state.Snapshot()
}

func (c *Controller) notify() {
	if len(c.observers) == 0 {
		return
	}
	s := c.state.Snapshot()
	for _, fn := range c.observers {
		fn(s)
	}
}
