package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventNamesHeld      EventType = "ghost_names_held"
	EventNameCommitted  EventType = "ghost_name_committed"
	EventNameReleased   EventType = "ghost_name_released"
	EventProfileUpdated EventType = "profile_updated"
)

// Event represents a domain event emitted after a successful write batch.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Identity  string    `json:"identity"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NamesHeldPayload lists the candidates now held for the identity.
type NamesHeldPayload struct {
	UniqueIDs []string `json:"unique_ids"`
	Released  []string `json:"released,omitempty"`
}

// NameCommittedPayload describes a committed ownership.
type NameCommittedPayload struct {
	UniqueID   string    `json:"unique_id"`
	Name       string    `json:"name"`
	Previous   string    `json:"previous_unique_id,omitempty"`
	ReservedAt time.Time `json:"reserved_at,omitempty"`
}

// NameReleasedPayload names a ghost name that went back to the pool.
type NameReleasedPayload struct {
	UniqueID string `json:"unique_id"`
	Name     string `json:"name"`
}

// ProfileUpdatedPayload carries the new display name.
type ProfileUpdatedPayload struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	OwnedUniqueID string `json:"owned_unique_id,omitempty"`
}
