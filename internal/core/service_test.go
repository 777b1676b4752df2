package core

import (
	"context"
	"testing"
	"time"

	"github.com/Rorical/ecli/internal/eventbus"
	"github.com/Rorical/ecli/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	id      provider.ID
	release chan struct{}
	calls   chan provider.Command
	panics  bool
}

func (f *fakeAdapter) ID() provider.ID { return f.id }

func (f *fakeAdapter) ParseCommand(raw string) provider.Command { return provider.ParseCommand(raw) }

func (f *fakeAdapter) Execute(ctx context.Context, cmd provider.Command) provider.Result {
	if f.calls != nil {
		f.calls <- cmd
	}
	if f.release != nil {
		<-f.release
	}
	if f.panics {
		panic("adapter exploded")
	}
	return provider.Result{Success: true, Output: "echo: " + cmd.Content}
}

type fakeStreamer struct {
	fakeAdapter
}

func (f *fakeStreamer) ExecuteStreaming(ctx context.Context, cmd provider.Command, onChunk func(string)) provider.Result {
	onChunk("a")
	onChunk("ab")
	onChunk("abc")
	return provider.Result{Success: true, Output: "abc"}
}

func nextEvent(t *testing.T, eb *eventbus.EventBus) eventbus.CoreEvent {
	t.Helper()
	select {
	case ev := <-eb.CoreToUI():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestExecuteDeliversResult(t *testing.T) {
	eb := eventbus.NewEventBus()
	svc := NewProviderService(eb, &fakeAdapter{id: provider.Codex})
	svc.Start()
	defer svc.Stop()

	require.NoError(t, svc.Submit(eventbus.ExecuteEvent{
		JobID: "j1", Provider: provider.Codex,
		Command: provider.Command{Kind: provider.KindPrompt, Content: "hi"},
	}))

	ev := nextEvent(t, eb)
	res, ok := ev.(eventbus.ResultEvent)
	require.True(t, ok)
	assert.Equal(t, "j1", res.JobID)
	assert.Equal(t, provider.Codex, res.Provider)
	assert.Equal(t, "echo: hi", res.Result.Output)
	assert.False(t, svc.Busy())
	assert.Equal(t, 1, svc.Stats().Completed)
}

func TestStreamingPublishesChunksInOrder(t *testing.T) {
	eb := eventbus.NewEventBus()
	svc := NewProviderService(eb, &fakeStreamer{fakeAdapter{id: provider.Claude}})
	svc.Start()
	defer svc.Stop()

	assert.True(t, svc.Streams(provider.Claude))
	assert.False(t, svc.Streams(provider.Gemini))

	require.NoError(t, svc.Submit(eventbus.ExecuteEvent{JobID: "s", Provider: provider.Claude}))

	var chunks []string
	for {
		switch e := nextEvent(t, eb).(type) {
		case eventbus.ChunkEvent:
			assert.Equal(t, "s", e.JobID)
			chunks = append(chunks, e.Text)
			continue
		case eventbus.ResultEvent:
			assert.Equal(t, "abc", e.Result.Output)
			assert.Equal(t, chunks[len(chunks)-1], e.Result.Output)
		}
		break
	}
	assert.Equal(t, []string{"a", "ab", "abc"}, chunks)
}

func TestOnlyOneJobInFlight(t *testing.T) {
	eb := eventbus.NewEventBus()
	fake := &fakeAdapter{id: provider.Gemini, release: make(chan struct{}), calls: make(chan provider.Command, 4)}
	svc := NewProviderService(eb, fake)
	svc.Start()
	defer svc.Stop()

	require.NoError(t, svc.Submit(eventbus.ExecuteEvent{JobID: "first", Provider: provider.Gemini}))
	<-fake.calls

	err := svc.Submit(eventbus.ExecuteEvent{JobID: "second", Provider: provider.Gemini})
	assert.ErrorIs(t, err, ErrBusy)

	close(fake.release)
	res := nextEvent(t, eb).(eventbus.ResultEvent)
	assert.Equal(t, "first", res.JobID)
	assert.Len(t, fake.calls, 0)

	job, ok := svc.state.Current()
	assert.False(t, ok)
	assert.Equal(t, Job{}, job)
}

func TestPanicBecomesUnexpectedError(t *testing.T) {
	eb := eventbus.NewEventBus()
	svc := NewProviderService(eb, &fakeAdapter{id: provider.Claude, panics: true})
	svc.Start()
	defer svc.Stop()

	require.NoError(t, svc.Submit(eventbus.ExecuteEvent{JobID: "p", Provider: provider.Claude}))
	res := nextEvent(t, eb).(eventbus.ResultEvent)
	assert.False(t, res.Result.Success)
	assert.Equal(t, "❌ Unexpected error: adapter exploded", res.Result.Output)
	assert.Equal(t, 1, svc.Stats().Failed)

	// the loop survives and accepts more work
	require.NoError(t, svc.Submit(eventbus.ExecuteEvent{JobID: "p2", Provider: provider.Claude}))
	assert.Equal(t, "p2", nextEvent(t, eb).(eventbus.ResultEvent).JobID)
}

func TestMissingAdapter(t *testing.T) {
	eb := eventbus.NewEventBus()
	svc := NewProviderService(eb)
	svc.Start()
	defer svc.Stop()

	require.NoError(t, svc.Submit(eventbus.ExecuteEvent{JobID: "m", Provider: provider.Codex}))
	res := nextEvent(t, eb).(eventbus.ResultEvent)
	assert.Contains(t, res.Result.Output, "❌ Unexpected error:")
}

func TestSubmitAfterCloseReleasesSlot(t *testing.T) {
	eb := eventbus.NewEventBus()
	svc := NewProviderService(eb)
	eb.Close()

	assert.Error(t, svc.Submit(eventbus.ExecuteEvent{JobID: "x", Provider: provider.Claude}))
	assert.False(t, svc.Busy())
}

func TestRunStateFinishIgnoresStaleJob(t *testing.T) {
	rs := NewRunState()
	require.NoError(t, rs.Begin("a", provider.Claude))
	assert.Zero(t, rs.Finish("b", true))
	assert.True(t, rs.Busy())
	rs.Finish("a", true)
	assert.False(t, rs.Busy())
}
