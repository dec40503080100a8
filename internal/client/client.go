// Package client is the Go client for the board API: a thin REST wrapper,
// a websocket event stream, and the drag reorder controller used by
// frontends embedding this module.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	v1 "github.com/plankhq/plank/internal/api/v1"
	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/order"
)

// BoardClient talks to one server with one user's access token.
type BoardClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewBoardClient(baseURL, token string) *BoardClient {
	return &BoardClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

// Snapshot fetches the full board state. Called on open and after every
// reconnect; there is no event replay to catch up from.
func (c *BoardClient) Snapshot(ctx context.Context, boardID uuid.UUID) (*v1.BoardSnapshot, error) {
	var snap v1.BoardSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/v1/boards/"+boardID.String(), nil, &snap); err != nil {
		return nil, fmt.Errorf("client.BoardClient.Snapshot: %w", err)
	}
	return &snap, nil
}

// MoveCard asks the server to place a card relative to an anchor. The
// returned card carries the authoritative position.
func (c *BoardClient) MoveCard(ctx context.Context, cardID, targetContainerID uuid.UUID, edge order.Edge, anchorID uuid.UUID) (*domain.Card, error) {
	body := map[string]any{
		"target_container_id": targetContainerID,
		"edge":                string(edge),
	}
	if anchorID != uuid.Nil {
		body["anchor_id"] = anchorID
	}

	var card domain.Card
	if err := c.do(ctx, http.MethodPost, "/api/v1/cards/"+cardID.String()+"/move", body, &card); err != nil {
		return nil, fmt.Errorf("client.BoardClient.MoveCard: %w", err)
	}
	return &card, nil
}

// MoveList reorders a list among its board's lists.
func (c *BoardClient) MoveList(ctx context.Context, listID uuid.UUID, edge order.Edge, anchorID uuid.UUID) (*domain.List, error) {
	body := map[string]any{
		"edge": string(edge),
	}
	if anchorID != uuid.Nil {
		body["anchor_id"] = anchorID
	}

	var list domain.List
	if err := c.do(ctx, http.MethodPost, "/api/v1/lists/"+listID.String()+"/move", body, &list); err != nil {
		return nil, fmt.Errorf("client.BoardClient.MoveList: %w", err)
	}
	return &list, nil
}

// Events dials the websocket endpoint, joins the board's room and streams
// its change events until ctx is cancelled. A join the server rejects is
// returned as an error; later ack frames are consumed internally and the
// channel closes on any read error, at which point the caller reconnects
// and re-fetches a snapshot.
func (c *BoardClient) Events(ctx context.Context, boardID uuid.UUID) (<-chan domain.Event, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws?token=" + url.QueryEscape(c.token)

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("client.BoardClient.Events: dial: %w", err)
	}

	join := map[string]any{"op": "join", "board_id": boardID}
	if err := wsjson.Write(ctx, conn, join); err != nil {
		_ = conn.CloseNow()
		return nil, fmt.Errorf("client.BoardClient.Events: join: %w", err)
	}

	// The server answers the join before any event flows. Wait for the
	// ack so a rejection surfaces here instead of as a silent channel.
	for {
		_, payload, err := conn.Read(ctx)
		if err != nil {
			_ = conn.CloseNow()
			return nil, fmt.Errorf("client.BoardClient.Events: join ack: %w", err)
		}

		var ack struct {
			Op     string `json:"op"`
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(payload, &ack); err != nil || ack.Op == "" {
			continue
		}
		if ack.Op == "error" {
			_ = conn.CloseNow()
			return nil, fmt.Errorf("client.BoardClient.Events: join rejected: %s", ack.Reason)
		}
		if ack.Op == "joined" {
			break
		}
	}

	events := make(chan domain.Event)
	go func() {
		defer close(events)
		defer conn.CloseNow()

		for {
			_, payload, err := conn.Read(ctx)
			if err != nil {
				return
			}

			// Control frames carry an "op"; events carry a "type".
			var probe struct {
				Op string `json:"op"`
			}
			if err := json.Unmarshal(payload, &probe); err == nil && probe.Op != "" {
				continue
			}

			var ev domain.Event
			if err := json.Unmarshal(payload, &ev); err != nil {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func (c *BoardClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(msg)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// APIError is a non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Body)
}
