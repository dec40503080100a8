package domain

import "github.com/google/uuid"

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventMoved   EventType = "moved"
	EventDeleted EventType = "deleted"
)

type EntityKind string

const (
	EntityCard EntityKind = "card"
	EntityList EntityKind = "list"
)

// Event is a board-scoped change notification. It exists only on the wire
// between the broadcaster and subscribed sessions; it is never stored.
// Exactly one of Card/List is set except for deletes, which carry only the
// ids. PreviousContainerID is set on moves so viewers can remove the entity
// from the old container before inserting it into the new one.
type Event struct {
	Type                EventType  `json:"type"`
	BoardID             uuid.UUID  `json:"board_id"`
	Kind                EntityKind `json:"kind"`
	Card                *Card      `json:"card,omitempty"`
	List                *List      `json:"list,omitempty"`
	EntityID            uuid.UUID  `json:"entity_id"`
	ContainerID         uuid.UUID  `json:"container_id"`
	PreviousContainerID uuid.UUID  `json:"previous_container_id,omitzero"`
}
