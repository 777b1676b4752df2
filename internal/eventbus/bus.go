package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Rorical/ecli/internal/provider"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrFull        = errors.New("channel is full")
	ErrClosed      = errors.New("event bus is closed")
)

// UIEvent flows from the controller to the provider service.
type UIEvent interface {
	UIEvent()
}

// CoreEvent flows from the service and watchers back into the UI loop.
type CoreEvent interface {
	CoreEvent()
}

// ExecuteEvent asks the service to run one command on one provider.
type ExecuteEvent struct {
	JobID    string
	Provider provider.ID
	Command  provider.Command
}

func (e ExecuteEvent) UIEvent() {}

// ChunkEvent carries the accumulated streaming text of a job.
type ChunkEvent struct {
	JobID string
	Text  string
}

func (e ChunkEvent) CoreEvent() {}

// ResultEvent is the final outcome of a job.
type ResultEvent struct {
	JobID    string
	Provider provider.ID
	Result   provider.Result
	Duration time.Duration
}

func (e ResultEvent) CoreEvent() {}

// CredentialsChangedEvent is raised when the credentials file changes on disk.
type CredentialsChangedEvent struct{}

func (e CredentialsChangedEvent) CoreEvent() {}

type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker stops best-effort publishing after repeated drops.
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = cb.now()
	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus connects the UI loop and the provider service. Best-effort events
// (chunks, file notifications) go through Publish and may be dropped;
// results go through Deliver, which waits for room.
type EventBus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	done           chan struct{}
	closeOnce      sync.Once
	mu             sync.Mutex
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, 16),
		coreToUI:       make(chan CoreEvent, 100),
		done:           make(chan struct{}),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	eb.circuitBreaker.RecordFailure()

	eb.mu.Lock()
	callback := eb.errorCallback
	eb.mu.Unlock()
	if callback != nil {
		callback(EventBusError{Operation: operation, Err: err, Timestamp: time.Now()})
	}
}

func (eb *EventBus) closed() bool {
	select {
	case <-eb.done:
		return true
	default:
		return false
	}
}

// SendToCore hands a request to the service without blocking the UI loop.
func (eb *EventBus) SendToCore(event UIEvent) error {
	if eb.closed() {
		return ErrClosed
	}
	select {
	case eb.uiToCore <- event:
		return nil
	default:
		eb.reportError("SendToCore", ErrFull)
		return ErrFull
	}
}

// Publish is a non-blocking send to the UI. The breaker only sheds stream
// chunks, and only while the UI channel is still saturated; the first send
// that fits closes it again.
func (eb *EventBus) Publish(event CoreEvent) error {
	if eb.closed() {
		return ErrClosed
	}
	_, chunk := event.(ChunkEvent)
	if chunk && eb.circuitBreaker.IsOpen() && len(eb.coreToUI) == cap(eb.coreToUI) {
		return ErrCircuitOpen
	}
	select {
	case eb.coreToUI <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.reportError("Publish", ErrFull)
		return ErrFull
	}
}

// Deliver blocks until the UI accepts the event, ctx ends or the bus closes.
func (eb *EventBus) Deliver(ctx context.Context, event CoreEvent) error {
	if eb.closed() {
		return ErrClosed
	}
	select {
	case eb.coreToUI <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-eb.done:
		return ErrClosed
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

// Done is closed by Close. Receivers select on it instead of channel closure.
func (eb *EventBus) Done() <-chan struct{} {
	return eb.done
}

func (eb *EventBus) CircuitState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

func (eb *EventBus) Close() {
	eb.closeOnce.Do(func() { close(eb.done) })
}
