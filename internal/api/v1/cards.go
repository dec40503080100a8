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

type CreateCardInput struct {
	Body struct {
		ContainerID uuid.UUID `json:"container_id" doc:"Target list or inbox ID"`
		Title       string    `json:"title" minLength:"1" maxLength:"500" doc:"Card title"`
		Description string    `json:"description,omitempty" doc:"Card description"`
		Edge        string    `json:"edge,omitempty" enum:"before,after" doc:"Side of the anchor to insert on (default: append)"`
		AnchorID    uuid.UUID `json:"anchor_id,omitempty" doc:"Sibling card to insert relative to"`
	}
}

type CreateCardOutput struct {
	Body *domain.Card
}

type GetCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

type GetCardOutput struct {
	Body *domain.Card
}

type EditCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		Title       *string `json:"title,omitempty" maxLength:"500" doc:"Card title"`
		Description *string `json:"description,omitempty" doc:"Card description"`
	}
}

type EditCardOutput struct {
	Body *domain.Card
}

type MoveCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		TargetContainerID uuid.UUID `json:"target_container_id" doc:"Destination list or inbox ID"`
		Edge              string    `json:"edge" enum:"before,after" doc:"Side of the anchor to land on"`
		AnchorID          uuid.UUID `json:"anchor_id,omitempty" doc:"Sibling card to land next to; omit for the container edge"`
	}
}

type MoveCardOutput struct {
	Body *domain.Card
}

type DeleteCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

func RegisterCardRoutes(api huma.API, store DataStore, mutator Mutator, access Access) {
	huma.Register(api, huma.Operation{
		OperationID: "create-card",
		Method:      http.MethodPost,
		Path:        "/cards",
		Summary:     "Create a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *CreateCardInput) (*CreateCardOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		card, err := mutator.CreateCard(ctx, callerID, collection.CreateCardInput{
			ContainerID: input.Body.ContainerID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Edge:        order.Edge(input.Body.Edge),
			AnchorID:    input.Body.AnchorID,
		})
		if err != nil {
			return nil, mapDomainError(err, "card")
		}
		return &CreateCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-card",
		Method:      http.MethodGet,
		Path:        "/cards/{id}",
		Summary:     "Get a card by ID",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *GetCardInput) (*GetCardOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		card, err := store.Cards().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapDomainError(err, "card")
		}

		allowed, err := access.CanAccessContainer(ctx, callerID, card.ContainerID)
		if err != nil {
			return nil, mapDomainError(err, "card")
		}
		if !allowed {
			return nil, huma.Error403Forbidden("no access to card")
		}
		return &GetCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "edit-card",
		Method:      http.MethodPatch,
		Path:        "/cards/{id}",
		Summary:     "Edit a card's title or description",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *EditCardInput) (*EditCardOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		card, err := mutator.EditCard(ctx, callerID, input.ID, collection.CardPatch{
			Title:       input.Body.Title,
			Description: input.Body.Description,
		})
		if err != nil {
			return nil, mapDomainError(err, "card")
		}
		return &EditCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-card",
		Method:      http.MethodPost,
		Path:        "/cards/{id}/move",
		Summary:     "Move a card within or across containers",
		Description: "The server recomputes the final position from current sibling state; any position the client computed locally is only an optimistic preview.",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *MoveCardInput) (*MoveCardOutput, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		card, err := mutator.MoveCard(ctx, collection.MoveCardRequest{
			CallerID:          callerID,
			CardID:            input.ID,
			TargetContainerID: input.Body.TargetContainerID,
			Edge:              order.Edge(input.Body.Edge),
			AnchorID:          input.Body.AnchorID,
		})
		if err != nil {
			return nil, mapDomainError(err, "card")
		}
		return &MoveCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-card",
		Method:      http.MethodDelete,
		Path:        "/cards/{id}",
		Summary:     "Delete a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *DeleteCardInput) (*struct{}, error) {
		callerID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller context")
		}

		if err := mutator.DeleteCard(ctx, callerID, input.ID); err != nil {
			return nil, mapDomainError(err, "card")
		}
		return nil, nil
	})
}
