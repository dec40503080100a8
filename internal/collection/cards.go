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

type CreateCardInput struct {
	ContainerID uuid.UUID
	Title       string
	Description string
	// Edge and AnchorID are optional; the zero values append to the end.
	Edge     order.Edge
	AnchorID uuid.UUID
}

type MoveCardRequest struct {
	CallerID          uuid.UUID
	CardID            uuid.UUID
	TargetContainerID uuid.UUID
	Edge              order.Edge
	AnchorID          uuid.UUID
}

type CardPatch struct {
	Title       *string
	Description *string
}

// CreateCard places a new card in a container, appending unless the caller
// asked for a specific anchor, and broadcasts the result.
func (s *Service) CreateCard(ctx context.Context, callerID uuid.UUID, in CreateCardInput) (*domain.Card, error) {
	if err := s.authorize(ctx, callerID, in.ContainerID); err != nil {
		return nil, err
	}

	target, err := s.containers.Container(ctx, in.ContainerID)
	if err != nil {
		return nil, fmt.Errorf("collection.Service.CreateCard: %w", err)
	}

	edge := in.Edge
	if edge == "" {
		edge = order.After
	}

	pos, err := s.place(ctx, cardPlacement{s.cards}, target.ID, uuid.Nil, edge, in.AnchorID)
	if err != nil {
		return nil, fmt.Errorf("collection.Service.CreateCard: %w", err)
	}

	now := time.Now()
	c := &domain.Card{
		ID:          uuid.New(),
		BoardID:     target.BoardID,
		ContainerID: target.ID,
		Title:       in.Title,
		Description: in.Description,
		Position:    pos,
		CreatedBy:   callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.cards.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("collection.Service.CreateCard: %w", err)
	}

	s.publish(ctx, domain.Event{
		Type:        domain.EventCreated,
		Kind:        domain.EntityCard,
		Card:        c,
		EntityID:    c.ID,
		ContainerID: c.ContainerID,
	}, target.BoardID)

	return c, nil
}

// MoveCard is the drag path. The target container's siblings are always
// re-read here; the position the client computed optimistically is ignored.
// Same-container reorders and cross-container moves run the identical
// algorithm — the only difference is whether the previous container id
// differs from the target.
func (s *Service) MoveCard(ctx context.Context, req MoveCardRequest) (*domain.Card, error) {
	if err := s.authorize(ctx, req.CallerID, req.TargetContainerID); err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, req.CardID)
	if err != nil {
		return nil, fmt.Errorf("collection.Service.MoveCard: %w", err)
	}

	target, err := s.containers.Container(ctx, req.TargetContainerID)
	if err != nil {
		return nil, fmt.Errorf("collection.Service.MoveCard: %w", err)
	}

	pos, err := s.place(ctx, cardPlacement{s.cards}, target.ID, card.ID, req.Edge, req.AnchorID)
	if err != nil {
		return nil, err
	}

	if err := s.cards.UpdatePlacement(ctx, card.ID, target.ID, pos); err != nil {
		return nil, fmt.Errorf("collection.Service.MoveCard: %w", err)
	}

	prevContainer := card.ContainerID
	prevBoard := card.BoardID
	card.ContainerID = target.ID
	card.BoardID = target.BoardID
	card.Position = pos
	card.UpdatedAt = time.Now()

	ev := domain.Event{
		Type:        domain.EventMoved,
		Kind:        domain.EntityCard,
		Card:        card,
		EntityID:    card.ID,
		ContainerID: card.ContainerID,
	}
	if prevContainer != target.ID {
		ev.PreviousContainerID = prevContainer
	}
	// A move out of (or into) an inbox touches at most one board room; a
	// cross-board move touches both so the source viewers see the removal.
	s.publish(ctx, ev, target.BoardID, prevBoard)

	return card, nil
}

// EditCard updates a card's payload fields. Position and container are
// untouched.
func (s *Service) EditCard(ctx context.Context, callerID, cardID uuid.UUID, patch CardPatch) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("collection.Service.EditCard: %w", err)
	}

	if err := s.authorize(ctx, callerID, card.ContainerID); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		card.Title = *patch.Title
	}
	if patch.Description != nil {
		card.Description = *patch.Description
	}
	card.UpdatedAt = time.Now()

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("collection.Service.EditCard: %w", err)
	}

	s.publish(ctx, domain.Event{
		Type:        domain.EventUpdated,
		Kind:        domain.EntityCard,
		Card:        card,
		EntityID:    card.ID,
		ContainerID: card.ContainerID,
	}, card.BoardID)

	return card, nil
}

// DeleteCard removes a card without renumbering its surviving siblings.
// Deleting an already-deleted card is a no-op: the second call succeeds.
func (s *Service) DeleteCard(ctx context.Context, callerID, cardID uuid.UUID) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("collection.Service.DeleteCard: %w", err)
	}

	if err := s.authorize(ctx, callerID, card.ContainerID); err != nil {
		return err
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("collection.Service.DeleteCard: %w", err)
	}

	s.publish(ctx, domain.Event{
		Type:        domain.EventDeleted,
		Kind:        domain.EntityCard,
		EntityID:    cardID,
		ContainerID: card.ContainerID,
	}, card.BoardID)

	return nil
}
