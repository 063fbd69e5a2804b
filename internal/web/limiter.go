package web

// limiter.go bounds how many checks run at once.
//
// Each check holds one slot of a semaphore for as long as its stream is being
// read. When all slots are taken a request waits up to maxWait and then fails
// with ErrTooManyChecks. WaitForDrain lets shutdown wait for running checks.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyChecks is returned when every check slot stays occupied for the
// whole wait time. Clients should retry after a short delay.
var ErrTooManyChecks = errors.New("too many concurrent checks, please try again later")

const (
	defaultMaxConcurrentChecks = 5
	defaultMaxWaitTime         = 30 * time.Second
)

// CheckLimiter is a counting semaphore for running checks.
type CheckLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewCheckLimiter allows at most maxConcurrent checks. Non-positive
// arguments fall back to the defaults.
func NewCheckLimiter(maxConcurrent int, maxWait time.Duration) *CheckLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentChecks
	}
	if maxWait <= 0 {
		maxWait = defaultMaxWaitTime
	}

	return &CheckLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. It returns ErrTooManyChecks when maxWait
// elapses first, or ctx.Err() if ctx ends. The caller must Release a slot it
// acquired.
func (l *CheckLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		return ErrTooManyChecks
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *CheckLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of running checks.
func (l *CheckLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no check is running or ctx ends.
func (l *CheckLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of the limiter for the health endpoint.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *CheckLimiter) Status() LimiterStatus {
	active := l.ActiveCount()
	return LimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
