package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/order"
)

type CreateListInput struct {
	BoardID  uuid.UUID
	Title    string
	Edge     order.Edge
	AnchorID uuid.UUID
}

type MoveListRequest struct {
	CallerID uuid.UUID
	ListID   uuid.UUID
	Edge     order.Edge
	AnchorID uuid.UUID
}

// CreateList places a new list on a board, appending unless an anchor was
// given.
func (s *Service) CreateList(ctx context.Context, callerID uuid.UUID, in CreateListInput) (*domain.List, error) {
	if err := s.authorize(ctx, callerID, in.BoardID); err != nil {
		return nil, err
	}

	if _, err := s.containers.Container(ctx, in.BoardID); err != nil {
		return nil, fmt.Errorf("collection.Service.CreateList: %w", err)
	}

	edge := in.Edge
	if edge == "" {
		edge = order.After
	}

	pos, err := s.place(ctx, listPlacement{s.lists}, in.BoardID, uuid.Nil, edge, in.AnchorID)
	if err != nil {
		return nil, fmt.Errorf("collection.Service.CreateList: %w", err)
	}

	now := time.Now()
	l := &domain.List{
		ID:        uuid.New(),
		BoardID:   in.BoardID,
		Title:     in.Title,
		Position:  pos,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("collection.Service.CreateList: %w", err)
	}

	s.publish(ctx, domain.Event{
		Type:        domain.EventCreated,
		Kind:        domain.EntityList,
		List:        l,
		EntityID:    l.ID,
		ContainerID: l.BoardID,
	}, l.BoardID)

	return l, nil
}

// MoveList reorders a list among its board's lists. Lists stay on their
// board; only cards move across containers.
func (s *Service) MoveList(ctx context.Context, req MoveListRequest) (*domain.List, error) {
	l, err := s.lists.GetByID(ctx, req.ListID)
	if err != nil {
		return nil, fmt.Errorf("collection.Service.MoveList: %w", err)
	}

	if err := s.authorize(ctx, req.CallerID, l.BoardID); err != nil {
		return nil, err
	}

	pos, err := s.place(ctx, listPlacement{s.lists}, l.BoardID, l.ID, req.Edge, req.AnchorID)
	if err != nil {
		return nil, err
	}

	if err := s.lists.UpdatePlacement(ctx, l.ID, l.BoardID, pos); err != nil {
		return nil, fmt.Errorf("collection.Service.MoveList: %w", err)
	}

	l.Position = pos
	l.UpdatedAt = time.Now()

	s.publish(ctx, domain.Event{
		Type:        domain.EventMoved,
		Kind:        domain.EntityList,
		List:        l,
		EntityID:    l.ID,
		ContainerID: l.BoardID,
	}, l.BoardID)

	return l, nil
}

// RenameList updates a list's title without touching its position.
func (s *Service) RenameList(ctx context.Context, callerID, listID uuid.UUID, title string) (*domain.List, error) {
	l, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("collection.Service.RenameList: %w", err)
	}

	if err := s.authorize(ctx, callerID, l.BoardID); err != nil {
		return nil, err
	}

	l.Title = title
	l.UpdatedAt = time.Now()

	if err := s.lists.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("collection.Service.RenameList: %w", err)
	}

	s.publish(ctx, domain.Event{
		Type:        domain.EventUpdated,
		Kind:        domain.EntityList,
		List:        l,
		EntityID:    l.ID,
		ContainerID: l.BoardID,
	}, l.BoardID)

	return l, nil
}

// DeleteList removes a list and its cards. Idempotent toward the caller:
// deleting an already-deleted list succeeds silently.
func (s *Service) DeleteList(ctx context.Context, callerID, listID uuid.UUID) error {
	l, err := s.lists.GetByID(ctx, listID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("collection.Service.DeleteList: %w", err)
	}

	if err := s.authorize(ctx, callerID, l.BoardID); err != nil {
		return err
	}

	if err := s.lists.Delete(ctx, listID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("collection.Service.DeleteList: %w", err)
	}

	s.publish(ctx, domain.Event{
		Type:        domain.EventDeleted,
		Kind:        domain.EntityList,
		EntityID:    listID,
		ContainerID: l.BoardID,
	}, l.BoardID)

	return nil
}
