// Package room maps board ids to the sessions currently viewing them and
// fans change events out to every member. Events for one board are
// delivered in publish order; there is no ordering across boards.
package room

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/plankhq/plank/internal/domain"
)

// Bus is the pub/sub transport behind the registry. The redis store
// satisfies it for multi-node deployments; LocalBus for single-node runs
// and tests.
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Channel returns the bus channel name for a board's room.
func Channel(boardID uuid.UUID) string {
	return "board:" + boardID.String()
}

const sessionBuffer = 64

// Session is one connected viewer. Events arrive on Events() in the order
// they were published to each joined board's room.
type Session struct {
	id     uuid.UUID
	events chan []byte
}

func NewSession(id uuid.UUID) *Session {
	return &Session{id: id, events: make(chan []byte, sessionBuffer)}
}

func (s *Session) ID() uuid.UUID         { return s.id }
func (s *Session) Events() <-chan []byte { return s.events }

// Registry tracks active rooms. A room is created when its first session
// joins (subscribing the bus channel) and destroyed when the last session
// leaves. Lifecycle is in-process only; clients re-join on reconnect.
type Registry struct {
	bus Bus

	mu    sync.Mutex
	rooms map[uuid.UUID]*boardRoom
}

type boardRoom struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	cancel   context.CancelFunc
	cleanup  func()
}

func NewRegistry(bus Bus) *Registry {
	return &Registry{
		bus:   bus,
		rooms: make(map[uuid.UUID]*boardRoom),
	}
}

// Join adds a session to a board's room, creating the room on first join.
// Joining a room the session is already in is a no-op.
func (r *Registry) Join(boardID uuid.UUID, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[boardID]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		messages, cleanup, err := r.bus.Subscribe(ctx, Channel(boardID))
		if err != nil {
			cancel()
			return fmt.Errorf("room.Registry.Join: %w", err)
		}
		rm = &boardRoom{
			sessions: make(map[uuid.UUID]*Session),
			cancel:   cancel,
			cleanup:  cleanup,
		}
		r.rooms[boardID] = rm
		go rm.pump(boardID, messages)
	}

	rm.mu.Lock()
	rm.sessions[s.id] = s
	rm.mu.Unlock()
	return nil
}

// Leave removes a session from a board's room. Leaving a room the session
// is not in is a no-op; the room is destroyed when it empties.
func (r *Registry) Leave(boardID, sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[boardID]
	if !ok {
		return
	}

	rm.mu.Lock()
	delete(rm.sessions, sessionID)
	empty := len(rm.sessions) == 0
	rm.mu.Unlock()

	if empty {
		rm.cancel()
		rm.cleanup()
		delete(r.rooms, boardID)
	}
}

// Publish marshals the event and publishes it to the board's channel. It is
// called after the mutation has committed, so members observe events in
// completion order.
func (r *Registry) Publish(ctx context.Context, boardID uuid.UUID, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("room.Registry.Publish: %w", err)
	}
	if err := r.bus.Publish(ctx, Channel(boardID), payload); err != nil {
		return fmt.Errorf("room.Registry.Publish: %w", err)
	}
	return nil
}

// ActiveRooms reports how many rooms currently have members.
func (r *Registry) ActiveRooms() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Close tears down every room and its bus subscription.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for boardID, rm := range r.rooms {
		rm.cancel()
		rm.cleanup()
		delete(r.rooms, boardID)
	}
}

// pump is the room's single delivery goroutine: it forwards each bus
// message to every member in arrival order. A session whose buffer is full
// has the message dropped — a publish never blocks or fails on one slow
// recipient, and a reconnecting client re-fetches full state anyway.
func (rm *boardRoom) pump(boardID uuid.UUID, messages <-chan []byte) {
	for msg := range messages {
		rm.mu.Lock()
		for _, s := range rm.sessions {
			select {
			case s.events <- msg:
			default:
				log.Warn().
					Str("board_id", boardID.String()).
					Str("session_id", s.id.String()).
					Msg("room: slow session, event dropped")
			}
		}
		rm.mu.Unlock()
	}
}
