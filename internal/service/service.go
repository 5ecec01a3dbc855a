// Package service implements the mock external services the stores call:
// authentication, flight search and booking completion. Each call waits for a
// configurable delay to simulate network latency.
package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

// Error messages are shown to users verbatim.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrRegistrationFailed = errors.New("Registration failed")
	ErrInvalidAirports    = errors.New("Invalid airports selected")
	ErrIncompleteBooking  = errors.New("Booking has no outbound flight")
)

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// lockedRand is a *rand.Rand safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(seed uint64) *lockedRand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
