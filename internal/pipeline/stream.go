package pipeline

import "context"

// Stream is the ordered event sequence of one run. The run goroutine is its
// only writer. Events is unbuffered, so an event is delivered only while the
// consumer is reading, and it is closed when the run ends.
type Stream struct {
	events chan Event
	done   chan struct{}
	err    error
}

func newStream() *Stream {
	return &Stream{
		events: make(chan Event),
		done:   make(chan struct{}),
	}
}

// Events returns the channel the run emits into.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Done is closed once the run has ended and Events is closed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that ended the run, or nil on completion.
// It is valid once Done is closed.
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) finish(err error) {
	s.err = err
	close(s.events)
	close(s.done)
}

type emitter struct {
	ctx context.Context
	ch  chan<- Event
	seq int
}

// emit delivers one event. It reports false, without sending, once ctx is
// cancelled.
func (e *emitter) emit(name string, data any) bool {
	if e.ctx.Err() != nil {
		return false
	}

	e.seq++
	select {
	case e.ch <- Event{Name: name, Seq: e.seq, Data: data}:
		return true
	case <-e.ctx.Done():
		return false
	}
}
