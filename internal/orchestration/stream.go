package orchestration

import (
	"context"
	"errors"
	"sync"
)

// ErrStreamClosed is returned by Recv once the terminal event was consumed
// and the producer closed the stream.
var ErrStreamClosed = errors.New("orchestration: stream closed")

// Stream is the unbounded, ordered, closeable queue between a running task
// and its consumer. The producer never blocks on it. After the consumer
// detaches, further sends are dropped silently.
type Stream struct {
	id string

	mu       sync.Mutex
	buf      []Event
	closed   bool
	detached bool
	dropped  int

	notEmpty chan struct{} // holds a token while buf is non-empty
	done     chan struct{} // closed by finish
}

func newStream(id string) *Stream {
	return &Stream{
		id:       id,
		notEmpty: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// ID returns the task identifier.
func (s *Stream) ID() string { return s.id }

// signal must be called with the lock held.
func (s *Stream) signal() {
	if len(s.buf) == 0 {
		return
	}
	select {
	case s.notEmpty <- struct{}{}:
	default:
	}
}

// send appends e. It reports false when the event was dropped because the
// consumer detached or the stream is already closed.
func (s *Stream) send(e Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.detached {
		s.dropped++
		return false
	}
	s.buf = append(s.buf, e)
	s.signal()
	return true
}

// finish closes the producer side. Buffered events stay readable.
func (s *Stream) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}

// TryRecv returns the next buffered event without blocking.
func (s *Stream) TryRecv() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) == 0 {
		return Event{}, false
	}
	e := s.buf[0]
	s.buf[0] = Event{}
	s.buf = s.buf[1:]
	s.signal()
	return e, true
}

// Recv blocks until an event is available, the stream is closed and drained
// (ErrStreamClosed), or ctx is done (ctx.Err()).
func (s *Stream) Recv(ctx context.Context) (Event, error) {
	for {
		if e, ok := s.TryRecv(); ok {
			return e, nil
		}
		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-s.notEmpty:
		case <-s.done:
			if e, ok := s.TryRecv(); ok {
				return e, nil
			}
			return Event{}, ErrStreamClosed
		}
	}
}

// Collect drains the stream until it is closed and returns every event in
// order.
func (s *Stream) Collect(ctx context.Context) ([]Event, error) {
	var events []Event
	for {
		e, err := s.Recv(ctx)
		if errors.Is(err, ErrStreamClosed) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}

// Done is closed when the producer finished. Events may still be buffered.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Drained reports whether the stream is closed and holds no more events.
func (s *Stream) Drained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed && len(s.buf) == 0
}

// Detach drops the consumer end. Buffered events are discarded and later
// sends become no-ops; the task keeps running to completion.
func (s *Stream) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	s.dropped += len(s.buf)
	s.buf = nil
}

// Dropped returns how many events were discarded because of Detach.
func (s *Stream) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
