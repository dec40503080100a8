package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ContainerKind string

const (
	ContainerList  ContainerKind = "list"
	ContainerInbox ContainerKind = "inbox"
	ContainerBoard ContainerKind = "board"
)

// Container is the resolution record for anything that holds ordered
// entities. BoardID is uuid.Nil for inboxes; OwnerID is uuid.Nil for
// everything but inboxes.
type Container struct {
	ID      uuid.UUID     `json:"id"`
	Kind    ContainerKind `json:"kind"`
	BoardID uuid.UUID     `json:"board_id,omitzero"`
	OwnerID uuid.UUID     `json:"owner_id,omitzero"`
}

// ContainerResolver maps a container id to its kind and scope.
// Fails with ErrNotFound for unknown ids.
type ContainerResolver interface {
	Container(ctx context.Context, id uuid.UUID) (*Container, error)
}

// Inbox holds a user's unassigned cards. Created lazily on first use; a
// card is in a list or in an inbox, never both.
type Inbox struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type InboxRepository interface {
	// ForUser returns the user's inbox, creating it if absent.
	ForUser(ctx context.Context, userID uuid.UUID) (*Inbox, error)
}
