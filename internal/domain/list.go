package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// List is an ordered column of cards within a board. Its position ranks it
// among the board's lists; within one board all positions are distinct and
// ascending position is render order.
type List struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	Title     string    `json:"title"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListRepository interface {
	Create(ctx context.Context, l *List) error
	GetByID(ctx context.Context, id uuid.UUID) (*List, error)
	// ListByBoard returns the board's lists ascending by position.
	// Fails with ErrNotFound if the board does not exist.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*List, error)
	// UpdatePlacement writes one list's {boardID, position}. Fails with
	// ErrConflict if the list was concurrently deleted and ErrNotFound if
	// the board no longer exists.
	UpdatePlacement(ctx context.Context, id, boardID uuid.UUID, position int64) error
	Update(ctx context.Context, l *List) error
	// Delete removes the list and its cards. Fails with ErrNotFound if the
	// list is already gone.
	Delete(ctx context.Context, id uuid.UUID) error
}
