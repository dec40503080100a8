package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/domain"
)

// Access answers the one question the mutation service asks before every
// change: may this caller touch that container? Lists and boards resolve to
// board membership; inboxes to ownership.
type Access struct {
	boards     domain.BoardRepository
	containers domain.ContainerResolver
}

func NewAccess(boards domain.BoardRepository, containers domain.ContainerResolver) *Access {
	return &Access{boards: boards, containers: containers}
}

func (a *Access) CanAccessContainer(ctx context.Context, callerID, containerID uuid.UUID) (bool, error) {
	c, err := a.containers.Container(ctx, containerID)
	if err != nil {
		return false, fmt.Errorf("auth.Access.CanAccessContainer: %w", err)
	}

	switch c.Kind {
	case domain.ContainerInbox:
		return c.OwnerID == callerID, nil
	default:
		return a.CanAccessBoard(ctx, callerID, c.BoardID)
	}
}

func (a *Access) CanAccessBoard(ctx context.Context, callerID, boardID uuid.UUID) (bool, error) {
	ok, err := a.boards.IsMember(ctx, boardID, callerID)
	if err != nil {
		return false, fmt.Errorf("auth.Access.CanAccessBoard: %w", err)
	}
	return ok, nil
}
