// Package collection orchestrates ordered-collection mutations: creating,
// moving, editing, and deleting cards and lists. Positions are always
// recomputed server-side from freshly read sibling state; a client-supplied
// position is never trusted. No cross-call lock is held on a container —
// correctness comes from the read-then-write discipline, with last-write-wins
// on overlapping drags.
package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/order"
)

// Access is the authorization collaborator consulted before every mutation.
type Access interface {
	CanAccessContainer(ctx context.Context, callerID, containerID uuid.UUID) (bool, error)
}

// Broadcaster fans a change event out to every session in a board's room.
// Implemented by room.Registry.
type Broadcaster interface {
	Publish(ctx context.Context, boardID uuid.UUID, ev domain.Event) error
}

// Service is the mutation service for boards, lists, and cards.
type Service struct {
	cards      domain.CardRepository
	lists      domain.ListRepository
	containers domain.ContainerResolver
	access     Access
	events     Broadcaster
}

func NewService(cards domain.CardRepository, lists domain.ListRepository, containers domain.ContainerResolver, access Access, events Broadcaster) *Service {
	return &Service{
		cards:      cards,
		lists:      lists,
		containers: containers,
		access:     access,
		events:     events,
	}
}

// authorize consults the access collaborator and maps a false answer to
// ErrUnauthorized.
func (s *Service) authorize(ctx context.Context, callerID, containerID uuid.UUID) error {
	ok, err := s.access.CanAccessContainer(ctx, callerID, containerID)
	if err != nil {
		return fmt.Errorf("collection.Service: authorize: %w", err)
	}
	if !ok {
		return fmt.Errorf("collection.Service: container %s: %w", containerID, domain.ErrUnauthorized)
	}
	return nil
}

// placement adapts one entity kind's repository to the shared placement
// engine. Cards and lists run the identical algorithm through it.
type placement interface {
	siblings(ctx context.Context, containerID uuid.UUID) ([]order.Ranked, error)
	writePosition(ctx context.Context, id, containerID uuid.UUID, position int64) error
}

type cardPlacement struct {
	repo domain.CardRepository
}

func (p cardPlacement) siblings(ctx context.Context, containerID uuid.UUID) ([]order.Ranked, error) {
	cards, err := p.repo.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	out := make([]order.Ranked, len(cards))
	for i, c := range cards {
		out[i] = order.Ranked{ID: c.ID, Position: c.Position}
	}
	return out, nil
}

func (p cardPlacement) writePosition(ctx context.Context, id, containerID uuid.UUID, position int64) error {
	return p.repo.UpdatePlacement(ctx, id, containerID, position)
}

type listPlacement struct {
	repo domain.ListRepository
}

func (p listPlacement) siblings(ctx context.Context, boardID uuid.UUID) ([]order.Ranked, error) {
	lists, err := p.repo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	out := make([]order.Ranked, len(lists))
	for i, l := range lists {
		out[i] = order.Ranked{ID: l.ID, Position: l.Position}
	}
	return out, nil
}

func (p listPlacement) writePosition(ctx context.Context, id, boardID uuid.UUID, position int64) error {
	return p.repo.UpdatePlacement(ctx, id, boardID, position)
}

// place computes the position for selfID at the requested edge of anchorID
// in containerID, re-reading siblings immediately before the computation.
// On order.ErrRebalanceRequired it renumbers the surviving siblings
// sequentially and retries the allocation once against the renumbered set.
// An anchor that vanished between the client's read and ours degrades to an
// append rather than failing the drag.
func (s *Service) place(ctx context.Context, p placement, containerID, selfID uuid.UUID, edge order.Edge, anchorID uuid.UUID) (int64, error) {
	sibs, err := p.siblings(ctx, containerID)
	if err != nil {
		return 0, err
	}
	sibs = excludeSelf(sibs, selfID)

	pos, err := computeWithFallback(edge, anchorID, sibs)
	if errors.Is(err, order.ErrRebalanceRequired) {
		fresh := order.Renumber(len(sibs))
		for i := range sibs {
			if werr := p.writePosition(ctx, sibs[i].ID, containerID, fresh[i]); werr != nil {
				// Abort before the triggering insert. Siblings renumbered so
				// far keep their new, still-correctly-ordered positions.
				return 0, fmt.Errorf("collection.Service: rebalance: %w", werr)
			}
			sibs[i].Position = fresh[i]
		}
		pos, err = computeWithFallback(edge, anchorID, sibs)
	}
	if err != nil {
		return 0, fmt.Errorf("collection.Service: place: %w", err)
	}
	return pos, nil
}

func computeWithFallback(edge order.Edge, anchorID uuid.UUID, sibs []order.Ranked) (int64, error) {
	pos, err := order.Compute(edge, anchorID, sibs)
	if errors.Is(err, order.ErrAnchorNotFound) {
		return order.Compute(edge, uuid.Nil, sibs)
	}
	return pos, err
}

func excludeSelf(sibs []order.Ranked, selfID uuid.UUID) []order.Ranked {
	if selfID == uuid.Nil {
		return sibs
	}
	out := sibs[:0]
	for _, s := range sibs {
		if s.ID != selfID {
			out = append(out, s)
		}
	}
	return out
}

// publish emits ev to each distinct non-nil board room. The mutation has
// already committed by the time this runs; a publish failure is logged and
// dropped, never surfaced to the caller. Reconnecting clients re-fetch full
// state, so no client depends on receiving every event.
func (s *Service) publish(ctx context.Context, ev domain.Event, boards ...uuid.UUID) {
	published := make(map[uuid.UUID]bool, len(boards))
	for _, boardID := range boards {
		if boardID == uuid.Nil || published[boardID] {
			continue
		}
		published[boardID] = true

		ev.BoardID = boardID
		if err := s.events.Publish(ctx, boardID, ev); err != nil {
			log.Warn().Err(err).
				Str("board_id", boardID.String()).
				Str("type", string(ev.Type)).
				Msg("collection: event publish dropped")
		}
	}
}
