package resilience

import (
	"context"
	"sync"
	"time"

	"reservas-api/internal/pkg/clock"
	"reservas-api/internal/pkg/errs"
)

type CircuitState string

const (
	StateClosed   CircuitState = "CLOSED"
	StateOpen     CircuitState = "OPEN"
	StateHalfOpen CircuitState = "HALF_OPEN"
)

var ErrCircuitOpen = errs.New("circuit breaker is OPEN")

// CircuitBreaker isolates one external dependency. All state mutations are
// serialized under the mutex; the guarded call itself runs outside the
// critical section.
type CircuitBreaker struct {
	failureThreshold int
	recoveryTimeout  time.Duration
	clock            clock.Clock

	mu            sync.Mutex
	state         CircuitState
	failureCount  int
	openedAt      time.Time
	probeInFlight bool
}

func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration, clk clock.Clock) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if recoveryTimeout <= 0 {
		recoveryTimeout = 30 * time.Second
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		clock:            clk,
		state:            StateClosed,
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *CircuitBreaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failureCount
}

// Call runs fn under the breaker. An OPEN breaker fails fast with
// ErrCircuitOpen until the recovery timeout elapses; the first call after
// that becomes the single HALF_OPEN probe.
func (b *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if err := b.beforeCall(); err != nil {
		return err
	}

	err := fn(ctx)
	b.afterCall(err)
	return err
}

func (b *CircuitBreaker) beforeCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.clock.Now().Sub(b.openedAt) < b.recoveryTimeout {
			return ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.probeInFlight = true
		return nil
	case StateHalfOpen:
		// Exactly one probe is allowed while half-open.
		if b.probeInFlight {
			return ErrCircuitOpen
		}
		b.probeInFlight = true
		return nil
	default:
		return nil
	}
}

func (b *CircuitBreaker) afterCall(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failureCount = 0
		b.state = StateClosed
		b.openedAt = time.Time{}
		b.probeInFlight = false
		return
	}

	b.failureCount++
	if b.state == StateHalfOpen || b.failureCount >= b.failureThreshold {
		b.state = StateOpen
		b.openedAt = b.clock.Now()
	}
	b.probeInFlight = false
}
