package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plankhq/plank/internal/domain"
)

type InboxRepo struct {
	pool *pgxpool.Pool
}

func NewInboxRepo(pool *pgxpool.Pool) *InboxRepo {
	return &InboxRepo{pool: pool}
}

// ForUser returns the user's inbox, creating it on first use. Concurrent
// first calls race on the insert; ON CONFLICT makes both land on the same
// row.
func (r *InboxRepo) ForUser(ctx context.Context, userID uuid.UUID) (*domain.Inbox, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO inboxes (id, user_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO NOTHING`,
		uuid.New(), userID, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("inboxRepo.ForUser: %w", err)
	}

	var in domain.Inbox
	err = r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at FROM inboxes WHERE user_id = $1`,
		userID,
	).Scan(&in.ID, &in.UserID, &in.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inboxRepo.ForUser: %w", err)
	}

	return &in, nil
}

// ContainerRepo resolves container ids across lists, inboxes and boards.
type ContainerRepo struct {
	pool *pgxpool.Pool
}

func NewContainerRepo(pool *pgxpool.Pool) *ContainerRepo {
	return &ContainerRepo{pool: pool}
}

func (r *ContainerRepo) Container(ctx context.Context, id uuid.UUID) (*domain.Container, error) {
	var c domain.Container
	var boardID, ownerID *uuid.UUID

	err := r.pool.QueryRow(ctx,
		`SELECT id, 'list', board_id, NULL::uuid FROM lists WHERE id = $1
		 UNION ALL
		 SELECT id, 'inbox', NULL::uuid, user_id FROM inboxes WHERE id = $1
		 UNION ALL
		 SELECT id, 'board', id, NULL::uuid FROM boards WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Kind, &boardID, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("containerRepo.Container: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("containerRepo.Container: %w", err)
	}

	if boardID != nil {
		c.BoardID = *boardID
	}
	if ownerID != nil {
		c.OwnerID = *ownerID
	}

	return &c, nil
}
