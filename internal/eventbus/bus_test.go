package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAndReceive(t *testing.T) {
	eb := NewEventBus()
	require.NoError(t, eb.Publish(ChunkEvent{JobID: "a", Text: "hel"}))

	ev := <-eb.CoreToUI()
	assert.Equal(t, ChunkEvent{JobID: "a", Text: "hel"}, ev)
}

func TestPublishDropsWhenFullAndTripsBreaker(t *testing.T) {
	eb := NewEventBus()
	var reported []EventBusError
	eb.SetErrorCallback(func(e EventBusError) { reported = append(reported, e) })

	for i := 0; i < cap(eb.coreToUI); i++ {
		require.NoError(t, eb.Publish(ChunkEvent{}))
	}
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, eb.Publish(ChunkEvent{}), ErrFull)
	}
	assert.Len(t, reported, 5)
	assert.Equal(t, CircuitOpen, eb.CircuitState())
	assert.ErrorIs(t, eb.Publish(ChunkEvent{}), ErrCircuitOpen)
}

func TestBreakerRecoversOnceDrained(t *testing.T) {
	eb := NewEventBus()
	for i := 0; i < cap(eb.coreToUI)+5; i++ {
		eb.Publish(ChunkEvent{Text: "line"})
	}
	require.Equal(t, CircuitOpen, eb.CircuitState())

	// Events other than chunks are never shed by the breaker.
	assert.ErrorIs(t, eb.Publish(CredentialsChangedEvent{}), ErrFull)

	for len(eb.CoreToUI()) > 0 {
		<-eb.CoreToUI()
	}

	require.NoError(t, eb.Publish(CredentialsChangedEvent{}))
	assert.Equal(t, CircuitClosed, eb.CircuitState())
	assert.Equal(t, CredentialsChangedEvent{}, <-eb.CoreToUI())

	require.NoError(t, eb.Publish(ChunkEvent{Text: "again"}))
	assert.Equal(t, ChunkEvent{Text: "again"}, <-eb.CoreToUI())
}

func TestChunkAfterDrainClosesBreaker(t *testing.T) {
	eb := NewEventBus()
	for i := 0; i < cap(eb.coreToUI)+5; i++ {
		eb.Publish(ChunkEvent{})
	}
	require.Equal(t, CircuitOpen, eb.CircuitState())

	<-eb.CoreToUI()
	require.NoError(t, eb.Publish(ChunkEvent{Text: "fits"}))
	assert.Equal(t, CircuitClosed, eb.CircuitState())
}

func TestCircuitBreakerHalfOpens(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(2, time.Second)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	now = now.Add(2 * time.Second)
	assert.False(t, cb.IsOpen())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestDeliverWaitsForRoom(t *testing.T) {
	eb := NewEventBus()
	for i := 0; i < cap(eb.coreToUI); i++ {
		require.NoError(t, eb.Publish(ChunkEvent{}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, eb.Deliver(ctx, ResultEvent{JobID: "x"}), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() { done <- eb.Deliver(context.Background(), ResultEvent{JobID: "y"}) }()
	<-eb.CoreToUI()
	assert.NoError(t, <-done)
}

func TestSendToCore(t *testing.T) {
	eb := NewEventBus()
	require.NoError(t, eb.SendToCore(ExecuteEvent{JobID: "j"}))
	assert.Equal(t, ExecuteEvent{JobID: "j"}, <-eb.UIToCore())

	for i := 0; i < cap(eb.uiToCore); i++ {
		require.NoError(t, eb.SendToCore(ExecuteEvent{}))
	}
	assert.ErrorIs(t, eb.SendToCore(ExecuteEvent{}), ErrFull)
}

func TestClose(t *testing.T) {
	eb := NewEventBus()
	eb.Close()
	eb.Close()

	assert.ErrorIs(t, eb.Publish(CredentialsChangedEvent{}), ErrClosed)
	assert.ErrorIs(t, eb.SendToCore(ExecuteEvent{}), ErrClosed)
	assert.ErrorIs(t, eb.Deliver(context.Background(), ResultEvent{}), ErrClosed)
}
