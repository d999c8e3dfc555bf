package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Domain event types emitted by the scheduler.
const (
	// EventCardMastered fires when a review completes a card's final stage.
	EventCardMastered = "card.mastered"

	// EventFolderMastered fires when the last card in a scheduled folder
	// is mastered and the folder's completion cycle ticks over.
	EventFolderMastered = "folder.mastered"

	// EventFolderRestarted fires when a mastered folder is reset for a
	// fresh learning cycle.
	EventFolderRestarted = "folder.restarted"

	// EventStreakExtended fires when a user's daily quota is met and
	// their streak counter grows.
	EventStreakExtended = "streak.extended"

	// EventAchievementUnlocked fires when a streak extension lands
	// exactly on a bonus tier threshold and awards its badge.
	EventAchievementUnlocked = "achievement.unlocked"
)

// DomainEvent represents something that happened in the scheduler that
// other components may react to (notifications, analytics). It carries
// its payload as JSON so consumers stay decoupled from domain types.
type DomainEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Event* constants above
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *DomainEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewDomainEvent creates a new DomainEvent with the specified type and payload.
func NewDomainEvent(eventType string, payload interface{}) (*DomainEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &DomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *DomainEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *DomainEvent) error
}
