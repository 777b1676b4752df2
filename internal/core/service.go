package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rorical/ecli/internal/eventbus"
	"github.com/Rorical/ecli/internal/provider"
	log "github.com/sirupsen/logrus"
)

// ProviderService owns the adapters and runs submitted jobs one at a time on
// its own goroutine. Progress and results travel back over the event bus.
type ProviderService struct {
	adapters map[provider.ID]provider.Adapter
	state    *RunState
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewProviderService(eb *eventbus.EventBus, adapters ...provider.Adapter) *ProviderService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &ProviderService{
		adapters: make(map[provider.ID]provider.Adapter, len(adapters)),
		state:    NewRunState(),
		eventBus: eb,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, a := range adapters {
		s.adapters[a.ID()] = a
	}
	return s
}

func (s *ProviderService) Start() {
	go s.eventLoop()
}

// Stop cancels the running job's context and ends the loop.
func (s *ProviderService) Stop() {
	s.cancel()
}

// Streams reports whether the adapter for id delivers incremental output.
func (s *ProviderService) Streams(id provider.ID) bool {
	_, ok := s.adapters[id].(provider.Streamer)
	return ok
}

// Submit queues a job. It fails with ErrBusy while another job runs.
func (s *ProviderService) Submit(ev eventbus.ExecuteEvent) error {
	if err := s.state.Begin(ev.JobID, ev.Provider); err != nil {
		return err
	}
	if err := s.eventBus.SendToCore(ev); err != nil {
		s.state.Abort(ev.JobID)
		return fmt.Errorf("failed to queue request: %w", err)
	}
	return nil
}

func (s *ProviderService) Busy() bool {
	return s.state.Busy()
}

func (s *ProviderService) Stats() Stats {
	return s.state.Stats()
}

func (s *ProviderService) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.eventBus.Done():
			return
		case event := <-s.eventBus.UIToCore():
			s.handleUIEvent(event)
		}
	}
}

func (s *ProviderService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.ExecuteEvent:
		s.execute(e)
	}
}

func (s *ProviderService) execute(ev eventbus.ExecuteEvent) {
	logger := log.WithFields(log.Fields{
		"job":      ev.JobID,
		"provider": ev.Provider,
		"kind":     ev.Command.Kind,
	})
	logger.Info("dispatching")

	result := s.run(ev)
	elapsed := s.state.Finish(ev.JobID, result.Success)
	logger.WithFields(log.Fields{"success": result.Success, "duration": elapsed}).Info("provider finished")
	if !result.Success && result.Err != "" {
		logger.WithField("error", result.Err).Debug("provider failure detail")
	}

	err := s.eventBus.Deliver(s.ctx, eventbus.ResultEvent{
		JobID:    ev.JobID,
		Provider: ev.Provider,
		Result:   result,
		Duration: elapsed,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Warn("result not delivered")
	}
}

// run invokes the adapter, converting a panic into a failure result.
func (s *ProviderService) run(ev eventbus.ExecuteEvent) (result provider.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("job", ev.JobID).Errorf("provider panicked: %v", r)
			result = unexpected(fmt.Sprint(r))
		}
	}()

	adapter, ok := s.adapters[ev.Provider]
	if !ok {
		return unexpected(fmt.Sprintf("no adapter registered for %q", ev.Provider))
	}

	if streamer, ok := adapter.(provider.Streamer); ok {
		return streamer.ExecuteStreaming(s.ctx, ev.Command, func(partial string) {
			if err := s.eventBus.Publish(eventbus.ChunkEvent{JobID: ev.JobID, Text: partial}); err != nil {
				log.WithError(err).Debug("chunk dropped")
			}
		})
	}
	return adapter.Execute(s.ctx, ev.Command)
}

func unexpected(detail string) provider.Result {
	return provider.Result{
		Success: false,
		Output:  "❌ Unexpected error: " + detail,
		Err:     detail,
	}
}
