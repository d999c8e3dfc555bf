package mocks

import (
	"context"
	"sync"

	"github.com/hanbit-app/srs-api/internal/events"
)

// EventEmitter records emitted events for assertions.
type EventEmitter struct {
	mu     sync.Mutex
	events []*events.DomainEvent

	EmitErr error
}

var _ events.EventEmitter = (*EventEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (e *EventEmitter) EmitEvent(ctx context.Context, event *events.DomainEvent) error {
	if e.EmitErr != nil {
		return e.EmitErr
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

// Events returns a snapshot of everything emitted so far.
func (e *EventEmitter) Events() []*events.DomainEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*events.DomainEvent, len(e.events))
	copy(out, e.events)
	return out
}

// TypesEmitted returns the event types in emission order.
func (e *EventEmitter) TypesEmitted() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	types := make([]string, len(e.events))
	for i, ev := range e.events {
		types[i] = ev.Type
	}
	return types
}
