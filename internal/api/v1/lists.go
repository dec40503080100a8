package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/collection"
	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/order"
	"github.com/plankhq/plank/internal/server/middleware"
)

type CreateListInput struct {
	Body struct {
		BoardID  uuid.UUID `json:"board_id" doc:"Board ID"`
		Title    string    `json:"title" minLength:"1" maxLength:"500" doc:"List title"`
		Edge     string    `json:"edge,omitempty" enum:"before,after" doc:"Side of the anchor to insert on (default: append)"`
		AnchorID uuid.UUID `json:"anchor_id,omitempty" doc:"Sibling list to insert relative to"`
	}
}

type CreateListOutput struct {
	Body *domain.List
}

type RenameListInput struct {
	ID   uuid.UUID `path:"id" doc:"List ID"`
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"500" doc:"New list title"`
	}
}

type RenameListOutput struct {
	Body *domain.List
}

type MoveListInput struct {
	ID   uuid.UUID `path:"id" doc:"List ID"`
	Body struct {
		Edge     string    `json:"edge" enum:"before,after" doc:"Side of the anchor to land on"`
		AnchorID uuid.UUID `json:"anchor_id,omitempty" doc:"Sibling list to land next to; omit for the board edge"`
	}
}

type MoveListOutput struct {
	Body *domain.List
}

type DeleteListInput struct {
	ID uuid.UUID `path:"id" doc:"List ID"`
}

func RegisterListRoutes(api huma.API, mutator Mutator) {
	huma.Register(api, huma.Operation{
		OperationID: "create-list",
		Method:      http.MethodPost,
		Path:        "/lists",
		Summary:     "Create a list on a board",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *CreateListInput) (*CreateListOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		list, err := mutator.CreateList(ctx, callerID, collection.CreateListInput{
			BoardID:  input.Body.BoardID,
			Title:    input.Body.Title,
			Edge:     order.Edge(input.Body.Edge),
			AnchorID: input.Body.AnchorID,
		})
		if err != nil {
			return nil, mapDomainError(err, "list")
		}
		return &CreateListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rename-list",
		Method:      http.MethodPatch,
		Path:        "/lists/{id}",
		Summary:     "Rename a list",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *RenameListInput) (*RenameListOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		list, err := mutator.RenameList(ctx, callerID, input.ID, input.Body.Title)
		if err != nil {
			return nil, mapDomainError(err, "list")
		}
		return &RenameListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-list",
		Method:      http.MethodPost,
		Path:        "/lists/{id}/move",
		Summary:     "Reorder a list among its board's lists",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *MoveListInput) (*MoveListOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		list, err := mutator.MoveList(ctx, collection.MoveListRequest{
			CallerID: callerID,
			ListID:   input.ID,
			Edge:     order.Edge(input.Body.Edge),
			AnchorID: input.Body.AnchorID,
		})
		if err != nil {
			return nil, mapDomainError(err, "list")
		}
		return &MoveListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-list",
		Method:      http.MethodDelete,
		Path:        "/lists/{id}",
		Summary:     "Delete a list and its cards",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *DeleteListInput) (*struct{}, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		if err := mutator.DeleteList(ctx, callerID, input.ID); err != nil {
			return nil, mapDomainError(err, "list")
		}
		return nil, nil
	})
}
