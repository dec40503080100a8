package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Board is the top-level container. Its lists are ordered by position; the
// board itself acts as the container for list placement.
type Board struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoardMember grants a user access to a board. The owner is always an
// implicit member.
type BoardMember struct {
	BoardID uuid.UUID `json:"board_id"`
	UserID  uuid.UUID `json:"user_id"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"added_at"`
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, m *BoardMember) error
	RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error
	IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, boardID uuid.UUID) ([]*BoardMember, error)
}
