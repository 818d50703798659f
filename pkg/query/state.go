package query

import (
	"encoding/json"

	"github.com/tagfilterdb/querydesk/pkg/client"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is what the presentation layer renders: the editable query text and
// the outcome of the latest submission. A result is held only in
// StatusSuccess and an error only in StatusError.
//
// State has no lock. It must only be touched from the goroutine that owns
// the Controller (a Loop, or a bubbletea Update function).
type State struct {
	queryText string
	status    Status
	result    json.RawMessage
	err       error
}

func NewState(queryText string) *State {
	return &State{queryText: queryText, status: StatusIdle}
}

func (s *State) QueryText() string {
	return s.queryText
}

// SetQueryText replaces the query text. Any string is accepted and the
// status is left alone.
func (s *State) SetQueryText(text string) {
	s.queryText = text
}

func (s *State) Status() Status {
	return s.status
}

func (s *State) Loading() bool {
	return s.status == StatusLoading
}

func (s *State) Result() json.RawMessage {
	return s.result
}

func (s *State) Err() error {
	return s.err
}

func (s *State) ErrorMessage() string {
	if s.err == nil {
		return ""
	}
	return s.err.Error()
}

func (s *State) Kind() client.Kind {
	return client.KindOf(s.err)
}

// Pretty is the result indented by two spaces, or "" without a result.
func (s *State) Pretty() string {
	return Pretty(s.result)
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		QueryText: s.queryText,
		Status:    s.status,
		Result:    s.result,
		Error:     s.ErrorMessage(),
		Kind:      s.Kind(),
	}
}

func (s *State) begin() {
	s.status = StatusLoading
	s.result = nil
	s.err = nil
}

func (s *State) succeed(result json.RawMessage) {
	if len(result) == 0 {
		result = json.RawMessage("null")
	}
	s.result = result
	s.err = nil
	s.status = StatusSuccess
}

func (s *State) fail(err error) {
	s.result = nil
	s.err = err
	s.status = StatusError
}

// Snapshot is a copy of State that can be handed to other goroutines.
type Snapshot struct {
	QueryText string
	Status    Status
	Result    json.RawMessage
	Error     string
	Kind      client.Kind
}

func (s Snapshot) Pretty() string {
	return Pretty(s.Result)
}
