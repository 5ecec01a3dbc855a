// Package reducer holds process-wide state that only changes through a pure
// transition function applied to a closed set of commands.
//
// A Store also hands out request tickets. An asynchronous operation takes a
// ticket before it suspends and commits its result with DispatchIf; a newer
// ticket, or Invalidate, makes the older result stale so it is dropped
// instead of overwriting newer state.
package reducer

import (
	"sync"
)

// Func is a pure transition: it must not mutate s and must not block.
type Func[S, C any] func(s S, c C) S

// Ticket identifies one asynchronous operation against a Store.
type Ticket uint64

// Option configures a Store.
type Option[S, C any] func(*Store[S, C])

// WithDispatchHook calls fn after every applied command.
func WithDispatchHook[S, C any](fn func(C)) Option[S, C] {
	return func(s *Store[S, C]) { s.onDispatch = fn }
}

// Store guards one state value.
type Store[S, C any] struct {
	mu         sync.RWMutex
	state      S
	reduce     Func[S, C]
	generation Ticket

	lmu       sync.Mutex
	listeners map[int]func(S)
	nextID    int

	onDispatch func(C)
}

// New creates a store holding initial.
func New[S, C any](initial S, reduce Func[S, C], opts ...Option[S, C]) *Store[S, C] {
	s := &Store[S, C]{
		state:     initial,
		reduce:    reduce,
		listeners: make(map[int]func(S)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state. Callers must treat slices and pointers in
// it as read-only; reducers never modify them in place.
func (s *Store[S, C]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies c and returns the new state.
func (s *Store[S, C]) Dispatch(c C) S {
	s.mu.Lock()
	s.state = s.reduce(s.state, c)
	next := s.state
	s.mu.Unlock()

	s.applied(c, next)
	return next
}

// Begin starts an asynchronous operation. Any ticket issued earlier becomes
// stale.
func (s *Store[S, C]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// BeginRead is Begin plus State under one lock, so the returned state is the
// one the ticket was issued against.
func (s *Store[S, C]) BeginRead() (Ticket, S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation, s.state
}

// BeginWith is Begin plus Dispatch(c) under one lock, so no other command can
// slip between taking the ticket and recording the start.
func (s *Store[S, C]) BeginWith(c C) (Ticket, S) {
	s.mu.Lock()
	s.generation++
	t := s.generation
	s.state = s.reduce(s.state, c)
	next := s.state
	s.mu.Unlock()

	s.applied(c, next)
	return t, next
}

// Invalidate makes every outstanding ticket stale.
func (s *Store[S, C]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// InvalidateWith is Invalidate plus Dispatch(c) under one lock.
func (s *Store[S, C]) InvalidateWith(c C) S {
	s.mu.Lock()
	s.generation++
	s.state = s.reduce(s.state, c)
	next := s.state
	s.mu.Unlock()

	s.applied(c, next)
	return next
}

// Current reports whether t is still the latest ticket.
func (s *Store[S, C]) Current(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return t == s.generation
}

// DispatchIf applies c only when t is still current. It reports whether the
// command was applied.
func (s *Store[S, C]) DispatchIf(t Ticket, c C) (S, bool) {
	s.mu.Lock()
	if t != s.generation {
		cur := s.state
		s.mu.Unlock()
		return cur, false
	}
	s.state = s.reduce(s.state, c)
	next := s.state
	s.mu.Unlock()

	s.applied(c, next)
	return next, true
}

// Subscribe registers fn to receive the state after every applied command.
// Listeners run on the dispatching goroutine, outside the state lock.
func (s *Store[S, C]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

func (s *Store[S, C]) applied(c C, next S) {
	if s.onDispatch != nil {
		s.onDispatch(c)
	}

	s.lmu.Lock()
	fns := make([]func(S), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
