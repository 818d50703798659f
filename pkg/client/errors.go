package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed round trip.
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindStatus
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "none"
	}
}

// TransportError means no complete response was received: the request could
// not be sent, the connection failed, the deadline passed, or the body could
// not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unable to reach query endpoint: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a response with a non-2xx status. The body is never kept.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("network response was not ok (status %d)", e.Code)
}

type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse response body: %s", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var (
		transport *TransportError
		status    *StatusError
		parse     *ParseError
	)

	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &status):
		return KindStatus
	case errors.As(err, &parse):
		return KindParse
	case errors.As(err, &transport):
		return KindTransport
	default:
		return KindTransport
	}
}
