package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker rejects calls
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON reports
func (s CircuitBreakerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CircuitBreakerConfig holds configuration for circuit breaker
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold int
	// SuccessThreshold is the number of half-open successes that closes it again
	SuccessThreshold int
	// Cooldown is how long the circuit stays open before a trial call
	Cooldown time.Duration
	// OnStateChange is called with the lock held; it must not call back into the breaker
	OnStateChange func(name string, from, to CircuitBreakerState)
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breakers
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Cooldown:         30 * time.Second,
	}
}

// CircuitBreakerStatus is a point-in-time view of the breaker
type CircuitBreakerStatus struct {
	Name                string              `json:"name"`
	State               CircuitBreakerState `json:"state"`
	ConsecutiveFailures int                 `json:"consecutive_failures"`
	TotalRequests       int64               `json:"total_requests"`
	TotalRejections     int64               `json:"total_rejections"`
	LastFailure         time.Time           `json:"last_failure,omitempty"`
	NextAttempt         time.Time           `json:"next_attempt,omitempty"`
}

// CircuitBreaker stops calling a failing dependency for a cooldown period.
// Only one trial call runs while half-open.
type CircuitBreaker struct {
	name   string
	config CircuitBreakerConfig
	now    func() time.Time

	mu          sync.Mutex
	state       CircuitBreakerState
	failures    int
	successes   int
	trialActive bool
	requests    int64
	rejections  int64
	lastFailure time.Time
	nextAttempt time.Time
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration
func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	defaults := DefaultCircuitBreakerConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}
	if config.Cooldown <= 0 {
		config.Cooldown = defaults.Cooldown
	}
	return &CircuitBreaker{
		name:   name,
		config: config,
		now:    time.Now,
		state:  StateClosed,
	}
}

// Execute runs fn unless the circuit is open. Context cancellation by the
// caller is not counted as a dependency failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := cb.before(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.after(ctx, err)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.requests++
	switch cb.state {
	case StateOpen:
		if cb.now().Before(cb.nextAttempt) {
			cb.rejections++
			return fmt.Errorf("%w: %s", ErrCircuitOpen, cb.name)
		}
		cb.setState(StateHalfOpen)
		cb.trialActive = true
	case StateHalfOpen:
		if cb.trialActive {
			cb.rejections++
			return fmt.Errorf("%w: %s", ErrCircuitOpen, cb.name)
		}
		cb.trialActive = true
	}
	return nil
}

func (cb *CircuitBreaker) after(ctx context.Context, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trialActive = false
	if err != nil && ctx.Err() != nil {
		return
	}

	if err != nil {
		cb.failures++
		cb.successes = 0
		cb.lastFailure = cb.now()
		if cb.state == StateHalfOpen || cb.failures >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
		}
		return
	}

	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) setState(next CircuitBreakerState) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next

	switch next {
	case StateOpen:
		cb.nextAttempt = cb.now().Add(cb.config.Cooldown)
	case StateHalfOpen:
		cb.successes = 0
	case StateClosed:
		cb.failures = 0
		cb.successes = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.name, prev, next)
	}
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Status returns a snapshot for reporting
func (cb *CircuitBreaker) Status() CircuitBreakerStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	status := CircuitBreakerStatus{
		Name:                cb.name,
		State:               cb.state,
		ConsecutiveFailures: cb.failures,
		TotalRequests:       cb.requests,
		TotalRejections:     cb.rejections,
		LastFailure:         cb.lastFailure,
	}
	if cb.state == StateOpen {
		status.NextAttempt = cb.nextAttempt
	}
	return status
}

// Reset closes the circuit and clears the failure count
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.setState(StateClosed)
	cb.failures = 0
	cb.trialActive = false
}

// Checker reports the breaker as a health check: open is degraded
func (cb *CircuitBreaker) Checker() Checker {
	return CheckerFunc(func(ctx context.Context) Check {
		status := cb.Status()
		check := Check{
			Status:      StatusHealthy,
			LastChecked: time.Now(),
			Metadata:    status,
		}
		if status.State != StateClosed {
			check.Status = StatusDegraded
			check.Message = "circuit " + status.State.String()
		}
		return check
	})
}
