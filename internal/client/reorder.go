package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/order"
)

// DragState is the reorder controller's lifecycle.
type DragState string

const (
	StateIdle      DragState = "idle"
	StateDragging  DragState = "dragging"
	StateDropped   DragState = "dropped"
	StateCancelled DragState = "cancelled"
)

var (
	ErrDragInProgress = errors.New("client: a drag is already in progress")
	ErrNoDrag         = errors.New("client: no drag in progress")
	ErrUnknownCard    = errors.New("client: card not in cached container")
)

// Mover sends the authoritative move request. *BoardClient satisfies it.
type Mover interface {
	MoveCard(ctx context.Context, cardID, targetContainerID uuid.UUID, edge order.Edge, anchorID uuid.UUID) (*domain.Card, error)
}

// Controller runs drag-and-drop reorders for one container's cards. It
// applies the drop optimistically from its cached sibling state, then
// reconciles with whatever the server answers: the server's position always
// wins, including over the optimistic preview. One drag at a time.
type Controller struct {
	mover   Mover
	timeout time.Duration

	mu          sync.Mutex
	containerID uuid.UUID
	items       []order.Ranked // ascending by position
	state       DragState
	dragID      uuid.UUID

	// in-flight move, for rollback. inflightSettled means an
	// authoritative event for the card arrived while the request ran,
	// in which case a failed request must not undo it.
	inflightID      uuid.UUID
	inflightSettled bool
}

// NewController seeds a controller with the container's current cards in
// render order, typically from a board snapshot.
func NewController(mover Mover, containerID uuid.UUID, items []order.Ranked, timeout time.Duration) *Controller {
	cp := make([]order.Ranked, len(items))
	copy(cp, items)
	sortRanked(cp)

	return &Controller{
		mover:       mover,
		timeout:     timeout,
		containerID: containerID,
		items:       cp,
		state:       StateIdle,
	}
}

// State reports the current lifecycle phase.
func (c *Controller) State() DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns the cached cards in render order.
func (c *Controller) Items() []order.Ranked {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := make([]order.Ranked, len(c.items))
	copy(cp, c.items)
	return cp
}

// BeginDrag starts dragging a card. Fails if another drag is active or the
// card is not in the cached container.
func (c *Controller) BeginDrag(cardID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDragging {
		return ErrDragInProgress
	}
	if indexOf(c.items, cardID) < 0 {
		return ErrUnknownCard
	}

	c.state = StateDragging
	c.dragID = cardID
	return nil
}

// Cancel abandons the active drag without touching any state. A no-op when
// nothing is being dragged.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDragging {
		return
	}
	c.state = StateCancelled
	c.dragID = uuid.Nil
}

// Drop commits the active drag next to an anchor. The candidate position is
// computed locally and applied immediately; the server's answer then
// replaces it. On error or deadline only the dragged card's optimistic
// change is rolled back — events other cards received in the meantime stay
// applied, and an authoritative event for the dragged card itself outranks
// the rollback.
func (c *Controller) Drop(ctx context.Context, edge order.Edge, anchorID uuid.UUID) (*domain.Card, error) {
	c.mu.Lock()
	if c.state != StateDragging {
		c.mu.Unlock()
		return nil, ErrNoDrag
	}
	cardID := c.dragID
	idx := indexOf(c.items, cardID)
	if idx < 0 {
		// The dragged card was deleted under us by a broadcast.
		c.state = StateCancelled
		c.dragID = uuid.Nil
		c.mu.Unlock()
		return nil, ErrUnknownCard
	}
	prev := c.items[idx]
	c.state = StateDropped
	c.dragID = uuid.Nil
	c.inflightID = cardID
	c.inflightSettled = false

	c.applyOptimistic(cardID, edge, anchorID)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	card, err := c.mover.MoveCard(ctx, cardID, c.containerID, edge, anchorID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflightID = uuid.Nil

	if err != nil {
		if !c.inflightSettled {
			c.upsert(prev)
		}
		return nil, fmt.Errorf("client.Controller.Drop: %w", err)
	}

	if !c.inflightSettled {
		c.upsert(order.Ranked{ID: card.ID, Position: card.Position})
	}
	return card, nil
}

// Apply reconciles a broadcast event into the cached state. Server events
// always win, even over an optimistic preview mid-flight; the origin
// session receives its own events and applies them like anyone else's.
func (c *Controller) Apply(ev domain.Event) {
	if ev.Kind != domain.EntityCard {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflightID != uuid.Nil && ev.EntityID == c.inflightID {
		c.inflightSettled = true
	}

	switch ev.Type {
	case domain.EventDeleted:
		c.remove(ev.EntityID)

	case domain.EventCreated, domain.EventMoved, domain.EventUpdated:
		if ev.ContainerID == c.containerID && ev.Card != nil {
			c.upsert(order.Ranked{ID: ev.Card.ID, Position: ev.Card.Position})
			return
		}
		// Moved away, or never ours.
		c.remove(ev.EntityID)
	}
}

// applyOptimistic recomputes the dragged card's position from the cached
// siblings. A local rebalance signal is ignored — the preview keeps the old
// position and the server's answer lands shortly after.
func (c *Controller) applyOptimistic(cardID uuid.UUID, edge order.Edge, anchorID uuid.UUID) {
	siblings := make([]order.Ranked, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != cardID {
			siblings = append(siblings, it)
		}
	}

	pos, err := order.Compute(edge, anchorID, siblings)
	if err != nil {
		return
	}
	c.upsert(order.Ranked{ID: cardID, Position: pos})
}

func (c *Controller) upsert(r order.Ranked) {
	if i := indexOf(c.items, r.ID); i >= 0 {
		c.items[i] = r
	} else {
		c.items = append(c.items, r)
	}
	sortRanked(c.items)
}

func (c *Controller) remove(id uuid.UUID) {
	if i := indexOf(c.items, id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

func indexOf(items []order.Ranked, id uuid.UUID) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func sortRanked(items []order.Ranked) {
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
}
