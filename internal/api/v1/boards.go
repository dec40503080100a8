package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/server/middleware"
)

type CreateBoardInput struct {
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"500" doc:"Board title"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type ListBoardsOutput struct {
	Body []*domain.Board
}

type GetBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

// ListColumn pairs a list with its cards, both ascending by position.
type ListColumn struct {
	List  *domain.List   `json:"list"`
	Cards []*domain.Card `json:"cards"`
}

// BoardSnapshot is the full state of one board. Clients fetch it on open
// and after every reconnect, then apply incremental events on top; there is
// no event replay.
type BoardSnapshot struct {
	Board *domain.Board `json:"board"`
	Lists []ListColumn  `json:"lists"`
}

type GetBoardOutput struct {
	Body *BoardSnapshot
}

type DeleteBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type AddMemberInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		UserID uuid.UUID `json:"user_id" doc:"User to add"`
	}
}

type ListMembersInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type ListMembersOutput struct {
	Body []*domain.BoardMember
}

type RemoveMemberInput struct {
	ID     uuid.UUID `path:"id" doc:"Board ID"`
	UserID uuid.UUID `path:"userID" doc:"User to remove"`
}

type InboxOutput struct {
	Body ListColumn
}

func RegisterBoardRoutes(api huma.API, store DataStore, access Access) {
	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		now := time.Now()
		b := &domain.Board{
			ID:        uuid.New(),
			OwnerID:   callerID,
			Title:     input.Body.Title,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.Boards().Create(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to create board", err)
		}
		return &CreateBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards visible to the caller",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		boards, err := store.Boards().ListForUser(ctx, callerID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}
		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{id}",
		Summary:     "Get a board snapshot with lists and cards in render order",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		if err := requireBoardAccess(ctx, access, callerID, input.ID); err != nil {
			return nil, err
		}

		board, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapDomainError(err, "board")
		}

		lists, err := store.Lists().ListByBoard(ctx, input.ID)
		if err != nil {
			return nil, mapDomainError(err, "board")
		}

		snapshot := &BoardSnapshot{Board: board, Lists: make([]ListColumn, 0, len(lists))}
		for _, l := range lists {
			cards, err := store.Cards().ListByContainer(ctx, l.ID)
			if err != nil {
				return nil, mapDomainError(err, "list")
			}
			if cards == nil {
				cards = []*domain.Card{}
			}
			snapshot.Lists = append(snapshot.Lists, ListColumn{List: l, Cards: cards})
		}
		return &GetBoardOutput{Body: snapshot}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-board",
		Method:      http.MethodDelete,
		Path:        "/boards/{id}",
		Summary:     "Delete a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *DeleteBoardInput) (*struct{}, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		board, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapDomainError(err, "board")
		}
		if board.OwnerID != callerID {
			return nil, huma.Error403Forbidden("only the owner can delete a board")
		}

		if err := store.Boards().Delete(ctx, input.ID); err != nil {
			return nil, mapDomainError(err, "board")
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-board-member",
		Method:      http.MethodPost,
		Path:        "/boards/{id}/members",
		Summary:     "Add a member to a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *AddMemberInput) (*struct{}, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		if err := requireBoardAccess(ctx, access, callerID, input.ID); err != nil {
			return nil, err
		}

		if _, err := store.Users().GetByID(ctx, input.Body.UserID); err != nil {
			return nil, mapDomainError(err, "user")
		}

		m := &domain.BoardMember{
			BoardID: input.ID,
			UserID:  input.Body.UserID,
			Role:    "member",
			AddedAt: time.Now(),
		}
		if err := store.Boards().AddMember(ctx, m); err != nil {
			return nil, mapDomainError(err, "board")
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-board-members",
		Method:      http.MethodGet,
		Path:        "/boards/{id}/members",
		Summary:     "List a board's members",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		if err := requireBoardAccess(ctx, access, callerID, input.ID); err != nil {
			return nil, err
		}

		members, err := store.Boards().ListMembers(ctx, input.ID)
		if err != nil {
			return nil, mapDomainError(err, "board")
		}
		return &ListMembersOutput{Body: members}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-board-member",
		Method:      http.MethodDelete,
		Path:        "/boards/{id}/members/{userID}",
		Summary:     "Remove a member from a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		if err := requireBoardAccess(ctx, access, callerID, input.ID); err != nil {
			return nil, err
		}

		if err := store.Boards().RemoveMember(ctx, input.ID, input.UserID); err != nil {
			return nil, mapDomainError(err, "board")
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-inbox",
		Method:      http.MethodGet,
		Path:        "/inbox",
		Summary:     "Get the caller's inbox cards in render order",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*InboxOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		inbox, err := store.Inboxes().ForUser(ctx, callerID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to resolve inbox", err)
		}

		cards, err := store.Cards().ListByContainer(ctx, inbox.ID)
		if err != nil {
			return nil, mapDomainError(err, "inbox")
		}
		if cards == nil {
			cards = []*domain.Card{}
		}
		return &InboxOutput{Body: ListColumn{Cards: cards}}, nil
	})
}

func requireBoardAccess(ctx context.Context, access Access, callerID, boardID uuid.UUID) error {
	ok, err := access.CanAccessBoard(ctx, callerID, boardID)
	if err != nil {
		return mapDomainError(err, "board")
	}
	if !ok {
		return huma.Error403Forbidden("no access to board")
	}
	return nil
}
