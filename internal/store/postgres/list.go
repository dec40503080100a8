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

type ListRepo struct {
	pool *pgxpool.Pool
}

func NewListRepo(pool *pgxpool.Pool) *ListRepo {
	return &ListRepo{pool: pool}
}

func (r *ListRepo) Create(ctx context.Context, l *domain.List) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO lists (id, board_id, title, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.BoardID, l.Title, l.Position, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("listRepo.Create: %w", err)
	}

	return nil
}

func (r *ListRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	var l domain.List

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, title, position, created_at, updated_at
		 FROM lists WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("listRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("listRepo.GetByID: %w", err)
	}

	return &l, nil
}

func (r *ListRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM boards WHERE id = $1)`, boardID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("listRepo.ListByBoard: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("listRepo.ListByBoard: %w", domain.ErrNotFound)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, title, position, created_at, updated_at
		 FROM lists WHERE board_id = $1
		 ORDER BY position`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("listRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var lists []*domain.List
	for rows.Next() {
		var l domain.List
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("listRepo.ListByBoard: scan: %w", err)
		}
		lists = append(lists, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listRepo.ListByBoard: %w", err)
	}

	return lists, nil
}

// UpdatePlacement writes one list's position. ErrNotFound means the board
// vanished, ErrConflict means the list itself did; callers treat the two
// differently when racing a delete.
func (r *ListRepo) UpdatePlacement(ctx context.Context, id, boardID uuid.UUID, position int64) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM boards WHERE id = $1)`, boardID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("listRepo.UpdatePlacement: %w", err)
	}
	if !exists {
		return fmt.Errorf("listRepo.UpdatePlacement: %w", domain.ErrNotFound)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE lists SET board_id = $1, position = $2, updated_at = now() WHERE id = $3`,
		boardID, position, id,
	)
	if err != nil {
		return fmt.Errorf("listRepo.UpdatePlacement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listRepo.UpdatePlacement: %w", domain.ErrConflict)
	}

	return nil
}

func (r *ListRepo) Update(ctx context.Context, l *domain.List) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE lists SET title = $1, updated_at = now() WHERE id = $2`,
		l.Title, l.ID,
	)
	if err != nil {
		return fmt.Errorf("listRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the list and its cards in one transaction.
func (r *ListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("listRepo.Delete: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM cards WHERE container_id = $1`, id); err != nil {
		return fmt.Errorf("listRepo.Delete: cards: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("listRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listRepo.Delete: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("listRepo.Delete: commit: %w", err)
	}

	return nil
}
