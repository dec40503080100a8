package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plankhq/plank/internal/domain"
)

type CardRepo struct {
	pool *pgxpool.Pool
}

func NewCardRepo(pool *pgxpool.Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cards (id, board_id, container_id, title, description, position, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, nilable(c.BoardID), c.ContainerID, c.Title, c.Description,
		c.Position, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Create: %w", err)
	}

	return nil
}

func (r *CardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var c domain.Card
	var boardID *uuid.UUID

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, container_id, title, description, position, created_by, created_at, updated_at
		 FROM cards WHERE id = $1`,
		id,
	).Scan(&c.ID, &boardID, &c.ContainerID, &c.Title, &c.Description,
		&c.Position, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", err)
	}

	if boardID != nil {
		c.BoardID = *boardID
	}

	return &c, nil
}

func (r *CardRepo) ListByContainer(ctx context.Context, containerID uuid.UUID) ([]*domain.Card, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM lists WHERE id = $1
		   UNION ALL
		   SELECT 1 FROM inboxes WHERE id = $1
		 )`,
		containerID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.ListByContainer: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("cardRepo.ListByContainer: %w", domain.ErrNotFound)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, container_id, title, description, position, created_by, created_at, updated_at
		 FROM cards WHERE container_id = $1
		 ORDER BY position`,
		containerID,
	)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.ListByContainer: %w", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		var c domain.Card
		var boardID *uuid.UUID
		if err := rows.Scan(&c.ID, &boardID, &c.ContainerID, &c.Title, &c.Description,
			&c.Position, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("cardRepo.ListByContainer: scan: %w", err)
		}
		if boardID != nil {
			c.BoardID = *boardID
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cardRepo.ListByContainer: %w", err)
	}

	return cards, nil
}

// UpdatePlacement writes one card's container and position, deriving the
// board from the target container. ErrNotFound means the container
// vanished, ErrConflict means the card itself did.
func (r *CardRepo) UpdatePlacement(ctx context.Context, id, containerID uuid.UUID, position int64) error {
	// The board is the target list's board, or NULL for an inbox.
	var boardID *uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT board_id FROM lists WHERE id = $1
		 UNION ALL
		 SELECT NULL FROM inboxes WHERE id = $1`,
		containerID,
	).Scan(&boardID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("cardRepo.UpdatePlacement: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("cardRepo.UpdatePlacement: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET container_id = $1, board_id = $2, position = $3, updated_at = now() WHERE id = $4`,
		containerID, boardID, position, id,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.UpdatePlacement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.UpdatePlacement: %w", domain.ErrConflict)
	}

	return nil
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET title = $1, description = $2, updated_at = now() WHERE id = $3`,
		c.Title, c.Description, c.ID,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// nilable maps uuid.Nil to a SQL NULL.
func nilable(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
