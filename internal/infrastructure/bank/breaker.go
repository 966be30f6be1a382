package bank

import (
	"errors"
	"sync"
	"time"
)

type BreakerState int

const (
	StateClosed   BreakerState = iota // calls pass through
	StateOpen                         // calls fail fast
	StateHalfOpen                     // one probe call is let through
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

var ErrBreakerOpen = errors.New("bank: circuit breaker open")

// Breaker trips after maxFailures consecutive failures and stays open for
// resetTimeout before letting a single probe through.
type Breaker struct {
	maxFailures  int
	resetTimeout time.Duration
	now          func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
}

func NewBreaker(maxFailures int, resetTimeout time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &Breaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
	}
}

// Call runs fn unless the breaker is open. Any error from fn counts as a failure.
func (b *Breaker) Call(fn func() error) error {
	return b.CallWith(fn, func(err error) bool { return err != nil })
}

// CallWith is Call with a classifier. Errors for which isFailure returns false
// are returned as is and leave the failure count untouched; a half-open probe
// slot is released for the next caller.
func (b *Breaker) CallWith(fn func() error, isFailure func(error) bool) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn()
	if err != nil && !isFailure(err) {
		b.release()
		return err
	}
	b.after(err == nil)
	return err
}

func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen {
		b.probing = false
	}
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.resetTimeout {
			return ErrBreakerOpen
		}
		b.state = StateHalfOpen
		b.probing = true
		return nil
	case StateHalfOpen:
		if b.probing {
			return ErrBreakerOpen
		}
		b.probing = true
		return nil
	default:
		return nil
	}
}

func (b *Breaker) after(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.probing = false
		if ok {
			b.state = StateClosed
			b.failures = 0
		} else {
			b.trip()
		}
		return
	}

	if ok {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.maxFailures {
		b.trip()
	}
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.failures = 0
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.resetTimeout {
		return StateHalfOpen
	}
	return b.state
}
