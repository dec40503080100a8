package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/collection"
	"github.com/plankhq/plank/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store and *memory.Store satisfy this interface.
type DataStore interface {
	Users() domain.UserRepository
	Boards() domain.BoardRepository
	Lists() domain.ListRepository
	Cards() domain.CardRepository
	Inboxes() domain.InboxRepository
	Containers() domain.ContainerResolver
}

// Mutator abstracts the mutation service for handler testing.
// *collection.Service satisfies this interface.
type Mutator interface {
	CreateCard(ctx context.Context, callerID uuid.UUID, in collection.CreateCardInput) (*domain.Card, error)
	MoveCard(ctx context.Context, req collection.MoveCardRequest) (*domain.Card, error)
	EditCard(ctx context.Context, callerID, cardID uuid.UUID, patch collection.CardPatch) (*domain.Card, error)
	DeleteCard(ctx context.Context, callerID, cardID uuid.UUID) error

	CreateList(ctx context.Context, callerID uuid.UUID, in collection.CreateListInput) (*domain.List, error)
	MoveList(ctx context.Context, req collection.MoveListRequest) (*domain.List, error)
	RenameList(ctx context.Context, callerID, listID uuid.UUID, title string) (*domain.List, error)
	DeleteList(ctx context.Context, callerID, listID uuid.UUID) error
}

// Access abstracts the authorization collaborator for read endpoints.
// *auth.Access satisfies this interface.
type Access interface {
	CanAccessContainer(ctx context.Context, callerID, containerID uuid.UUID) (bool, error)
	CanAccessBoard(ctx context.Context, callerID, boardID uuid.UUID) (bool, error)
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}
