package reducer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	N       int
	Started bool
}

type cmd int

const (
	incr cmd = iota
	start
	reset
)

func reduceCounter(s counter, c cmd) counter {
	switch c {
	case incr:
		s.N++
	case start:
		s.Started = true
	case reset:
		return counter{}
	}
	return s
}

func TestStore_Dispatch(t *testing.T) {
	s := New(counter{}, reduceCounter)

	got := s.Dispatch(incr)

	assert.Equal(t, 1, got.N)
	assert.Equal(t, got, s.State())
}

func TestStore_DispatchIf_dropsStaleTickets(t *testing.T) {
	s := New(counter{}, reduceCounter)

	first := s.Begin()
	second := s.Begin()

	_, applied := s.DispatchIf(first, incr)
	assert.False(t, applied)
	assert.Equal(t, 0, s.State().N)

	st, applied := s.DispatchIf(second, incr)
	assert.True(t, applied)
	assert.Equal(t, 1, st.N)
}

func TestStore_Invalidate(t *testing.T) {
	s := New(counter{}, reduceCounter)
	tk := s.Begin()

	s.InvalidateWith(reset)

	assert.False(t, s.Current(tk))
	_, applied := s.DispatchIf(tk, incr)
	assert.False(t, applied)
}

func TestStore_BeginWith(t *testing.T) {
	s := New(counter{}, reduceCounter)

	tk, st := s.BeginWith(start)

	assert.True(t, st.Started)
	assert.True(t, s.Current(tk))
}

func TestStore_BeginRead(t *testing.T) {
	s := New(counter{}, reduceCounter)
	s.Dispatch(incr)
	s.InvalidateWith(reset)

	tk, st := s.BeginRead()
	assert.Equal(t, counter{}, st)
	assert.True(t, s.Current(tk))

	s.InvalidateWith(reset)
	_, applied := s.DispatchIf(tk, incr)
	assert.False(t, applied)
}

func TestStore_Subscribe(t *testing.T) {
	s := New(counter{}, reduceCounter)
	var seen []int
	unsubscribe := s.Subscribe(func(st counter) { seen = append(seen, st.N) })

	s.Dispatch(incr)
	s.Dispatch(incr)
	unsubscribe()
	unsubscribe()
	s.Dispatch(incr)

	assert.Equal(t, []int{1, 2}, seen)
}

func TestStore_Subscribe_notCalledForStaleResults(t *testing.T) {
	s := New(counter{}, reduceCounter)
	calls := 0
	s.Subscribe(func(counter) { calls++ })

	tk := s.Begin()
	s.Invalidate()
	s.DispatchIf(tk, incr)

	assert.Zero(t, calls)
}

func TestStore_WithDispatchHook(t *testing.T) {
	var hooked []cmd
	s := New(counter{}, reduceCounter, WithDispatchHook[counter](func(c cmd) { hooked = append(hooked, c) }))

	s.Dispatch(incr)
	s.Dispatch(reset)

	assert.Equal(t, []cmd{incr, reset}, hooked)
}

func TestStore_concurrentDispatch(t *testing.T) {
	s := New(counter{}, reduceCounter)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(incr)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.State().N)
}
