package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/plankhq/plank/internal/api/v1"
	"github.com/plankhq/plank/internal/collection"
	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/order"
)

// ---------------------------------------------------------------------------
// TestCreateCard
// ---------------------------------------------------------------------------

func TestCreateCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	listID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var createCalled bool
		_, api := humatest.New(t)
		mutator := &mockMutator{
			createCardFunc: func(_ context.Context, callerID uuid.UUID, in collection.CreateCardInput) (*domain.Card, error) {
				createCalled = true
				assert.Equal(t, userID, callerID)
				assert.Equal(t, listID, in.ContainerID)
				assert.Equal(t, "Write release notes", in.Title)
				assert.Equal(t, order.Edge(""), in.Edge)
				return &domain.Card{
					ID:          uuid.New(),
					ContainerID: in.ContainerID,
					Title:       in.Title,
					Position:    1000,
					CreatedBy:   callerID,
					CreatedAt:   time.Now(),
					UpdatedAt:   time.Now(),
				}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.PostCtx(userCtx(userID), "/cards", map[string]any{
			"container_id": listID.String(),
			"title":        "Write release notes",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, createCalled, "mutator.CreateCard must be invoked")

		var body domain.Card
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Write release notes", body.Title)
		assert.Equal(t, listID, body.ContainerID)
		assert.Equal(t, int64(1000), body.Position)
	})

	t.Run("anchored_insert_forwards_edge", func(t *testing.T) {
		t.Parallel()

		anchorID := uuid.New()
		_, api := humatest.New(t)
		mutator := &mockMutator{
			createCardFunc: func(_ context.Context, _ uuid.UUID, in collection.CreateCardInput) (*domain.Card, error) {
				assert.Equal(t, order.Before, in.Edge)
				assert.Equal(t, anchorID, in.AnchorID)
				return &domain.Card{ID: uuid.New(), ContainerID: in.ContainerID, Title: in.Title}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.PostCtx(userCtx(userID), "/cards", map[string]any{
			"container_id": listID.String(),
			"title":        "Urgent",
			"edge":         "before",
			"anchor_id":    anchorID.String(),
		})
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("unauthorized_container", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mutator := &mockMutator{
			createCardFunc: func(_ context.Context, _ uuid.UUID, _ collection.CreateCardInput) (*domain.Card, error) {
				return nil, domain.ErrUnauthorized
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.PostCtx(userCtx(userID), "/cards", map[string]any{
			"container_id": listID.String(),
			"title":        "Sneaky",
		})
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("missing_caller", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterCardRoutes(api, &mockDataStore{}, &mockMutator{}, allowAll())

		resp := api.Post("/cards", map[string]any{
			"container_id": listID.String(),
			"title":        "No token",
		})
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestGetCard
// ---------------------------------------------------------------------------

func TestGetCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	listID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			cards: &mockCardRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Card, error) {
					assert.Equal(t, cardID, id)
					return &domain.Card{ID: cardID, ContainerID: listID, Title: "Found", Position: 2000}, nil
				},
			},
		}
		v1.RegisterCardRoutes(api, store, &mockMutator{}, allowAll())

		resp := api.GetCtx(userCtx(userID), "/cards/"+cardID.String())
		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Card
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Found", body.Title)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			cards: &mockCardRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterCardRoutes(api, store, &mockMutator{}, allowAll())

		resp := api.GetCtx(userCtx(userID), "/cards/"+uuid.NewString())
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("no_access", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			cards: &mockCardRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
					return &domain.Card{ID: cardID, ContainerID: listID}, nil
				},
			},
		}
		access := &mockAccess{
			containerFunc: func(_ context.Context, callerID, containerID uuid.UUID) (bool, error) {
				assert.Equal(t, userID, callerID)
				assert.Equal(t, listID, containerID)
				return false, nil
			},
		}
		v1.RegisterCardRoutes(api, store, &mockMutator{}, access)

		resp := api.GetCtx(userCtx(userID), "/cards/"+cardID.String())
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestMoveCard
// ---------------------------------------------------------------------------

func TestMoveCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	targetID := uuid.New()
	anchorID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mutator := &mockMutator{
			moveCardFunc: func(_ context.Context, req collection.MoveCardRequest) (*domain.Card, error) {
				assert.Equal(t, userID, req.CallerID)
				assert.Equal(t, cardID, req.CardID)
				assert.Equal(t, targetID, req.TargetContainerID)
				assert.Equal(t, order.After, req.Edge)
				assert.Equal(t, anchorID, req.AnchorID)
				return &domain.Card{ID: cardID, ContainerID: targetID, Position: 1500}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.PostCtx(userCtx(userID), "/cards/"+cardID.String()+"/move", map[string]any{
			"target_container_id": targetID.String(),
			"edge":                "after",
			"anchor_id":           anchorID.String(),
		})
		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Card
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, targetID, body.ContainerID)
		assert.Equal(t, int64(1500), body.Position)
	})

	t.Run("card_vanished_mid_drag", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mutator := &mockMutator{
			moveCardFunc: func(_ context.Context, _ collection.MoveCardRequest) (*domain.Card, error) {
				return nil, domain.ErrConflict
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.PostCtx(userCtx(userID), "/cards/"+cardID.String()+"/move", map[string]any{
			"target_container_id": targetID.String(),
			"edge":                "before",
		})
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("target_container_gone", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mutator := &mockMutator{
			moveCardFunc: func(_ context.Context, _ collection.MoveCardRequest) (*domain.Card, error) {
				return nil, domain.ErrNotFound
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.PostCtx(userCtx(userID), "/cards/"+cardID.String()+"/move", map[string]any{
			"target_container_id": targetID.String(),
			"edge":                "after",
		})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("rejects_bad_edge", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterCardRoutes(api, &mockDataStore{}, &mockMutator{}, allowAll())

		resp := api.PostCtx(userCtx(userID), "/cards/"+cardID.String()+"/move", map[string]any{
			"target_container_id": targetID.String(),
			"edge":                "sideways",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestEditCard
// ---------------------------------------------------------------------------

func TestEditCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mutator := &mockMutator{
			editCardFunc: func(_ context.Context, callerID, id uuid.UUID, patch collection.CardPatch) (*domain.Card, error) {
				assert.Equal(t, userID, callerID)
				assert.Equal(t, cardID, id)
				require.NotNil(t, patch.Title)
				assert.Equal(t, "Renamed", *patch.Title)
				assert.Nil(t, patch.Description)
				return &domain.Card{ID: cardID, Title: "Renamed"}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.PatchCtx(userCtx(userID), "/cards/"+cardID.String(), map[string]any{
			"title": "Renamed",
		})
		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Card
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Renamed", body.Title)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mutator := &mockMutator{
			editCardFunc: func(_ context.Context, _, _ uuid.UUID, _ collection.CardPatch) (*domain.Card, error) {
				return nil, domain.ErrNotFound
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.PatchCtx(userCtx(userID), "/cards/"+cardID.String(), map[string]any{
			"title": "Ghost",
		})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestDeleteCard
// ---------------------------------------------------------------------------

func TestDeleteCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var deleteCalled bool
		_, api := humatest.New(t)
		mutator := &mockMutator{
			deleteCardFunc: func(_ context.Context, callerID, id uuid.UUID) error {
				deleteCalled = true
				assert.Equal(t, userID, callerID)
				assert.Equal(t, cardID, id)
				return nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.DeleteCtx(userCtx(userID), "/cards/"+cardID.String())
		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleteCalled, "mutator.DeleteCard must be invoked")
	})

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mutator := &mockMutator{
			deleteCardFunc: func(_ context.Context, _, _ uuid.UUID) error {
				return domain.ErrForbidden
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mutator, allowAll())

		resp := api.DeleteCtx(userCtx(userID), "/cards/"+cardID.String())
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
