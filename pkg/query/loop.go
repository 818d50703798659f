package query

import (
	"context"
	"errors"
)

// ErrStopped is returned when work is handed to a Loop that is no longer
// running.
var ErrStopped = errors.New("query loop is not running")

// Loop is a single goroutine task queue. Every closure posted to it runs to
// completion before the next one starts, so State and Controller can be
// used from those closures without locking.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

func NewLoop(size int) *Loop {
	if size < 0 {
		size = 0
	}
	return &Loop{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It returns false when the loop has stopped and fn will
// never run.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes posted closures until ctx is done. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
