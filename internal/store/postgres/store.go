package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plankhq/plank/internal/domain"
)

type Store struct {
	pool       *pgxpool.Pool
	users      *UserRepo
	boards     *BoardRepo
	lists      *ListRepo
	cards      *CardRepo
	inboxes    *InboxRepo
	containers *ContainerRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		users:      NewUserRepo(pool),
		boards:     NewBoardRepo(pool),
		lists:      NewListRepo(pool),
		cards:      NewCardRepo(pool),
		inboxes:    NewInboxRepo(pool),
		containers: NewContainerRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository         { return s.users }
func (s *Store) Boards() domain.BoardRepository       { return s.boards }
func (s *Store) Lists() domain.ListRepository         { return s.lists }
func (s *Store) Cards() domain.CardRepository         { return s.cards }
func (s *Store) Inboxes() domain.InboxRepository      { return s.inboxes }
func (s *Store) Containers() domain.ContainerResolver { return s.containers }
