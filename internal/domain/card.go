package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Card is an ordered entity living in exactly one container at a time:
// either a list on a board, or a user's inbox (BoardID is uuid.Nil then).
// Within one container all positions are distinct; ascending position is
// render order.
type Card struct {
	ID          uuid.UUID `json:"id"`
	BoardID     uuid.UUID `json:"board_id,omitzero"`
	ContainerID uuid.UUID `json:"container_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Position    int64     `json:"position"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CardRepository interface {
	Create(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*Card, error)
	// ListByContainer returns the container's cards ascending by position.
	// Fails with ErrNotFound if the container does not exist.
	ListByContainer(ctx context.Context, containerID uuid.UUID) ([]*Card, error)
	// UpdatePlacement writes one card's {containerID, position}, deriving
	// the board from the target container. Fails with ErrConflict if the
	// card was concurrently deleted and ErrNotFound if the container no
	// longer exists.
	UpdatePlacement(ctx context.Context, id, containerID uuid.UUID, position int64) error
	Update(ctx context.Context, c *Card) error
	Delete(ctx context.Context, id uuid.UUID) error
}
