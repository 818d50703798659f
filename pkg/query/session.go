package query

import (
	"context"
)

// Session drives a Controller from any goroutine by posting work to a Loop.
// Request Tasks run on their own goroutines and post their Completion back,
// so the controller and its state are only ever touched by the loop.
type Session struct {
	loop       *Loop
	controller *Controller

	// Owned by the loop.
	cancel  context.CancelFunc
	waiters []chan Snapshot
}

func NewSession(loop *Loop, controller *Controller) *Session {
	s := &Session{loop: loop, controller: controller}
	controller.OnChange(s.flush)
	return s
}

// Submit queues a submission of text. A request still in flight from an
// earlier submission has its context cancelled; whatever it returns is
// discarded by the controller.
func (s *Session) Submit(ctx context.Context, text string) error {
	return s.post(func() {
		s.start(ctx, s.controller.Submit(text))
	})
}

// SubmitCurrent queues a submission of the query text held by the state.
func (s *Session) SubmitCurrent(ctx context.Context) error {
	return s.post(func() {
		s.start(ctx, s.controller.SubmitCurrent())
	})
}

func (s *Session) SetQueryText(text string) error {
	return s.post(func() {
		s.controller.State().SetQueryText(text)
	})
}

// Snapshot returns the current state as seen by the loop.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	err := s.post(func() {
		ch <- s.controller.State().Snapshot()
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.receive(ctx, ch)
}

// Await blocks until no submission is in flight and returns the state at
// that point.
func (s *Session) Await(ctx context.Context) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	err := s.post(func() {
		state := s.controller.State()
		if !state.Loading() {
			ch <- state.Snapshot()
			return
		}
		s.waiters = append(s.waiters, ch)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.receive(ctx, ch)
}

func (s *Session) start(ctx context.Context, task Task) {
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go func() {
		done := task(ctx)
		cancel()
		s.loop.Post(func() {
			s.controller.Complete(done)
		})
	}()
}

func (s *Session) flush(snapshot Snapshot) {
	if snapshot.Status == StatusLoading {
		return
	}
	for _, ch := range s.waiters {
		ch <- snapshot
	}
	s.waiters = nil
}

func (s *Session) post(fn func()) error {
	if !s.loop.Post(fn) {
		return ErrStopped
	}
	return nil
}

func (s *Session) receive(ctx context.Context, ch <-chan Snapshot) (Snapshot, error) {
	select {
	case snapshot := <-ch:
		return snapshot, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-s.loop.Done():
		return Snapshot{}, ErrStopped
	}
}
