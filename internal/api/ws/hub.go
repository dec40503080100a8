// Package ws bridges WebSocket connections to board rooms. One connection
// carries one session; the client joins and leaves boards with control
// frames and receives every change event for its joined boards.
package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/plankhq/plank/internal/room"
	"github.com/plankhq/plank/internal/server/middleware"
)

// Access gates room membership. *auth.Access satisfies it.
type Access interface {
	CanAccessBoard(ctx context.Context, callerID, boardID uuid.UUID) (bool, error)
}

// ClientFrame is a control message from the client.
type ClientFrame struct {
	Op      string    `json:"op"` // "join" or "leave"
	BoardID uuid.UUID `json:"board_id"`
}

// AckFrame confirms a processed control frame.
type AckFrame struct {
	Op      string    `json:"op"` // "joined" or "left"
	BoardID uuid.UUID `json:"board_id"`
}

// ErrorFrame reports a rejected control frame. The connection stays open.
type ErrorFrame struct {
	Op      string    `json:"op"` // always "error"
	Reason  string    `json:"reason"`
	BoardID uuid.UUID `json:"board_id,omitzero"`
}

// Hub upgrades connections and wires them to the room registry.
type Hub struct {
	registry *room.Registry
	access   Access
}

func NewHub(registry *room.Registry, access Access) *Hub {
	return &Hub{registry: registry, access: access}
}

// ServeWS handles the event stream connection. Clients send join/leave
// frames and receive board events as text messages. Dropped connections
// lose any events published while away; clients re-fetch the board
// snapshot on reconnect instead of replaying.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing caller", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session := room.NewSession(uuid.New())
	joined := make(map[uuid.UUID]struct{})
	defer func() {
		for boardID := range joined {
			h.registry.Leave(boardID, session.ID())
		}
	}()

	// Writer: forwards room events and control acks. The read loop below
	// owns the connection lifetime; a write error cancels it.
	outbound := make(chan any, 8)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-outbound:
				if err := wsjson.Write(ctx, conn, frame); err != nil {
					cancel()
					return
				}
			case msg, msgOK := <-session.Events():
				if !msgOK {
					return
				}
				if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
					log.Debug().Err(err).Msg("websocket write")
					cancel()
					return
				}
			}
		}
	}()

	for {
		var frame ClientFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		}
		h.handleFrame(ctx, userID, session, joined, frame, outbound)
	}
}

func (h *Hub) handleFrame(ctx context.Context, userID uuid.UUID, session *room.Session, joined map[uuid.UUID]struct{}, frame ClientFrame, outbound chan<- any) {
	switch frame.Op {
	case "join":
		if frame.BoardID == uuid.Nil {
			send(ctx, outbound, ErrorFrame{Op: "error", Reason: "missing board_id"})
			return
		}
		allowed, err := h.access.CanAccessBoard(ctx, userID, frame.BoardID)
		if err != nil || !allowed {
			send(ctx, outbound, ErrorFrame{Op: "error", Reason: "no access to board", BoardID: frame.BoardID})
			return
		}
		if err := h.registry.Join(frame.BoardID, session); err != nil {
			log.Error().Err(err).Str("board_id", frame.BoardID.String()).Msg("ws: join failed")
			send(ctx, outbound, ErrorFrame{Op: "error", Reason: "join failed", BoardID: frame.BoardID})
			return
		}
		joined[frame.BoardID] = struct{}{}
		send(ctx, outbound, AckFrame{Op: "joined", BoardID: frame.BoardID})

	case "leave":
		h.registry.Leave(frame.BoardID, session.ID())
		delete(joined, frame.BoardID)
		send(ctx, outbound, AckFrame{Op: "left", BoardID: frame.BoardID})

	default:
		send(ctx, outbound, ErrorFrame{Op: "error", Reason: "unknown op: " + frame.Op})
	}
}

func send(ctx context.Context, outbound chan<- any, frame any) {
	select {
	case outbound <- frame:
	case <-ctx.Done():
	}
}
