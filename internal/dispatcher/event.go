package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/Rorical/ecli/internal/eventbus"
)

// EventMsg wraps a core event for Bubble Tea.
type EventMsg struct {
	Event eventbus.CoreEvent
}

// EventDispatcher feeds core events into the Bubble Tea loop, one per Listen.
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	eventBus.SetErrorCallback(func(err eventbus.EventBusError) {
		log.WithError(err.Err).WithField("op", err.Operation).Debug("event bus drop")
	})
	return &EventDispatcher{
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Listen waits for the next core event. The caller re-issues it after each
// EventMsg so exactly one listener is pending at a time. It yields nil once
// the dispatcher is stopped.
func (ed *EventDispatcher) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ed.ctx.Done():
			return nil
		case <-ed.eventBus.Done():
			return nil
		case ev := <-ed.eventBus.CoreToUI():
			return EventMsg{Event: ev}
		}
	}
}

// NotifyCredentialsChanged is handed to the credentials watcher. It waits for
// room on the bus so a change is never lost behind a burst of stream chunks.
func (ed *EventDispatcher) NotifyCredentialsChanged() {
	if err := ed.eventBus.Deliver(ed.ctx, eventbus.CredentialsChangedEvent{}); err != nil {
		log.WithError(err).Debug("credentials change not published")
	}
}

func (ed *EventDispatcher) Stop() {
	ed.cancel()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
