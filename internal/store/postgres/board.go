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

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

func (r *BoardRepo) Create(ctx context.Context, b *domain.Board) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO boards (id, owner_id, title, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.OwnerID, b.Title, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Create: %w", err)
	}

	return nil
}

func (r *BoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var b domain.Board

	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, title, created_at, updated_at
		 FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.OwnerID, &b.Title, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", err)
	}

	return &b, nil
}

func (r *BoardRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT b.id, b.owner_id, b.title, b.created_at, b.updated_at
		 FROM boards b
		 LEFT JOIN board_members m ON m.board_id = b.id
		 WHERE b.owner_id = $1 OR m.user_id = $1
		 ORDER BY b.created_at
		 LIMIT 1000`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	var boards []*domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Title, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("boardRepo.ListForUser: scan: %w", err)
		}
		boards = append(boards, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boardRepo.ListForUser: %w", err)
	}

	return boards, nil
}

func (r *BoardRepo) Update(ctx context.Context, b *domain.Board) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE boards SET title = $1, updated_at = now() WHERE id = $2`,
		b.Title, b.ID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the board with its lists, cards and memberships in one
// transaction.
func (r *BoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM cards WHERE board_id = $1`, id); err != nil {
		return fmt.Errorf("boardRepo.Delete: cards: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM lists WHERE board_id = $1`, id); err != nil {
		return fmt.Errorf("boardRepo.Delete: lists: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM board_members WHERE board_id = $1`, id); err != nil {
		return fmt.Errorf("boardRepo.Delete: members: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Delete: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("boardRepo.Delete: commit: %w", err)
	}

	return nil
}

func (r *BoardRepo) AddMember(ctx context.Context, m *domain.BoardMember) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO board_members (board_id, user_id, role, added_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (board_id, user_id) DO NOTHING`,
		m.BoardID, m.UserID, m.Role, m.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.AddMember: %w", err)
	}

	return nil
}

func (r *BoardRepo) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM board_members WHERE board_id = $1 AND user_id = $2`,
		boardID, userID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.RemoveMember: %w", err)
	}

	return nil
}

func (r *BoardRepo) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	var ok bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM boards WHERE id = $1 AND owner_id = $2
		   UNION ALL
		   SELECT 1 FROM board_members WHERE board_id = $1 AND user_id = $2
		 )`,
		boardID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("boardRepo.IsMember: %w", err)
	}

	return ok, nil
}

func (r *BoardRepo) ListMembers(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT board_id, user_id, role, added_at
		 FROM board_members WHERE board_id = $1
		 ORDER BY added_at`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.ListMembers: %w", err)
	}
	defer rows.Close()

	var members []*domain.BoardMember
	for rows.Next() {
		var m domain.BoardMember
		if err := rows.Scan(&m.BoardID, &m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("boardRepo.ListMembers: scan: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boardRepo.ListMembers: %w", err)
	}

	return members, nil
}
