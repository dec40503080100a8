// Package memory is the in-memory reference implementation of the store
// adapter boundary. It backs single-process development runs and the
// mutation-service tests; the postgres package implements the same
// interfaces for production.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/domain"
)

type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*domain.User
	userByEmail map[string]uuid.UUID
	boards      map[uuid.UUID]*domain.Board
	members     map[uuid.UUID]map[uuid.UUID]*domain.BoardMember
	lists       map[uuid.UUID]*domain.List
	cards       map[uuid.UUID]*domain.Card
	inboxByUser map[uuid.UUID]*domain.Inbox
	inboxByID   map[uuid.UUID]*domain.Inbox
}

func New() *Store {
	return &Store{
		users:       make(map[uuid.UUID]*domain.User),
		userByEmail: make(map[string]uuid.UUID),
		boards:      make(map[uuid.UUID]*domain.Board),
		members:     make(map[uuid.UUID]map[uuid.UUID]*domain.BoardMember),
		lists:       make(map[uuid.UUID]*domain.List),
		cards:       make(map[uuid.UUID]*domain.Card),
		inboxByUser: make(map[uuid.UUID]*domain.Inbox),
		inboxByID:   make(map[uuid.UUID]*domain.Inbox),
	}
}

func (s *Store) Users() domain.UserRepository         { return userRepo{s} }
func (s *Store) Boards() domain.BoardRepository       { return boardRepo{s} }
func (s *Store) Lists() domain.ListRepository         { return listRepo{s} }
func (s *Store) Cards() domain.CardRepository         { return cardRepo{s} }
func (s *Store) Inboxes() domain.InboxRepository      { return inboxRepo{s} }
func (s *Store) Containers() domain.ContainerResolver { return containerResolver{s} }

// containerLocked resolves a container id with s.mu already held.
func (s *Store) containerLocked(id uuid.UUID) (*domain.Container, error) {
	if _, ok := s.boards[id]; ok {
		return &domain.Container{ID: id, Kind: domain.ContainerBoard, BoardID: id}, nil
	}
	if l, ok := s.lists[id]; ok {
		return &domain.Container{ID: id, Kind: domain.ContainerList, BoardID: l.BoardID}, nil
	}
	if in, ok := s.inboxByID[id]; ok {
		return &domain.Container{ID: id, Kind: domain.ContainerInbox, OwnerID: in.UserID}, nil
	}
	return nil, domain.ErrNotFound
}

type containerResolver struct{ s *Store }

func (r containerResolver) Container(_ context.Context, id uuid.UUID) (*domain.Container, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, err := r.s.containerLocked(id)
	if err != nil {
		return nil, fmt.Errorf("memory: container %s: %w", id, err)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.userByEmail[u.Email]; ok {
		return fmt.Errorf("memory: user %s: %w", u.Email, domain.ErrConflict)
	}
	cp := *u
	r.s.users[u.ID] = &cp
	r.s.userByEmail[u.Email] = u.ID
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("memory: user %s: %w", id, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.userByEmail[email]
	if !ok {
		return nil, fmt.Errorf("memory: user %s: %w", email, domain.ErrNotFound)
	}
	cp := *r.s.users[id]
	return &cp, nil
}

// ---------------------------------------------------------------------------
// Boards
// ---------------------------------------------------------------------------

type boardRepo struct{ s *Store }

func (r boardRepo) Create(_ context.Context, b *domain.Board) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *b
	r.s.boards[b.ID] = &cp
	return nil
}

func (r boardRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Board, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.boards[id]
	if !ok {
		return nil, fmt.Errorf("memory: board %s: %w", id, domain.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r boardRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Board
	for _, b := range r.s.boards {
		if b.OwnerID == userID || r.s.members[b.ID][userID] != nil {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r boardRepo) Update(_ context.Context, b *domain.Board) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.boards[b.ID]; !ok {
		return fmt.Errorf("memory: board %s: %w", b.ID, domain.ErrNotFound)
	}
	cp := *b
	r.s.boards[b.ID] = &cp
	return nil
}

func (r boardRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.boards[id]; !ok {
		return fmt.Errorf("memory: board %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.boards, id)
	delete(r.s.members, id)
	for lid, l := range r.s.lists {
		if l.BoardID == id {
			delete(r.s.lists, lid)
		}
	}
	for cid, c := range r.s.cards {
		if c.BoardID == id {
			delete(r.s.cards, cid)
		}
	}
	return nil
}

func (r boardRepo) AddMember(_ context.Context, m *domain.BoardMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.boards[m.BoardID]; !ok {
		return fmt.Errorf("memory: board %s: %w", m.BoardID, domain.ErrNotFound)
	}
	if r.s.members[m.BoardID] == nil {
		r.s.members[m.BoardID] = make(map[uuid.UUID]*domain.BoardMember)
	}
	cp := *m
	r.s.members[m.BoardID][m.UserID] = &cp
	return nil
}

func (r boardRepo) RemoveMember(_ context.Context, boardID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.members[boardID], userID)
	return nil
}

func (r boardRepo) IsMember(_ context.Context, boardID, userID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.boards[boardID]
	if !ok {
		return false, fmt.Errorf("memory: board %s: %w", boardID, domain.ErrNotFound)
	}
	if b.OwnerID == userID {
		return true, nil
	}
	return r.s.members[boardID][userID] != nil, nil
}

func (r boardRepo) ListMembers(_ context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.boards[boardID]; !ok {
		return nil, fmt.Errorf("memory: board %s: %w", boardID, domain.ErrNotFound)
	}
	var out []*domain.BoardMember
	for _, m := range r.s.members[boardID] {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out, nil
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

type listRepo struct{ s *Store }

func (r listRepo) Create(_ context.Context, l *domain.List) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.boards[l.BoardID]; !ok {
		return fmt.Errorf("memory: board %s: %w", l.BoardID, domain.ErrNotFound)
	}
	cp := *l
	r.s.lists[l.ID] = &cp
	return nil
}

func (r listRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.List, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.lists[id]
	if !ok {
		return nil, fmt.Errorf("memory: list %s: %w", id, domain.ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

func (r listRepo) ListByBoard(_ context.Context, boardID uuid.UUID) ([]*domain.List, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.boards[boardID]; !ok {
		return nil, fmt.Errorf("memory: board %s: %w", boardID, domain.ErrNotFound)
	}
	var out []*domain.List
	for _, l := range r.s.lists {
		if l.BoardID == boardID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r listRepo) UpdatePlacement(_ context.Context, id, boardID uuid.UUID, position int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.boards[boardID]; !ok {
		return fmt.Errorf("memory: board %s: %w", boardID, domain.ErrNotFound)
	}
	l, ok := r.s.lists[id]
	if !ok {
		return fmt.Errorf("memory: list %s: %w", id, domain.ErrConflict)
	}
	l.BoardID = boardID
	l.Position = position
	l.UpdatedAt = time.Now()
	return nil
}

// Update writes payload fields only. Placement (board, position) is owned
// by UpdatePlacement, so a stale edit cannot revert a concurrent move.
func (r listRepo) Update(_ context.Context, l *domain.List) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.lists[l.ID]
	if !ok {
		return fmt.Errorf("memory: list %s: %w", l.ID, domain.ErrNotFound)
	}
	cur.Title = l.Title
	cur.UpdatedAt = time.Now()
	return nil
}

func (r listRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lists[id]; !ok {
		return fmt.Errorf("memory: list %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.lists, id)
	for cid, c := range r.s.cards {
		if c.ContainerID == id {
			delete(r.s.cards, cid)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cards
// ---------------------------------------------------------------------------

type cardRepo struct{ s *Store }

func (r cardRepo) Create(_ context.Context, c *domain.Card) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.containerLocked(c.ContainerID); err != nil {
		return fmt.Errorf("memory: container %s: %w", c.ContainerID, err)
	}
	cp := *c
	r.s.cards[c.ID] = &cp
	return nil
}

func (r cardRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cards[id]
	if !ok {
		return nil, fmt.Errorf("memory: card %s: %w", id, domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r cardRepo) ListByContainer(_ context.Context, containerID uuid.UUID) ([]*domain.Card, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, err := r.s.containerLocked(containerID); err != nil {
		return nil, fmt.Errorf("memory: container %s: %w", containerID, err)
	}
	var out []*domain.Card
	for _, c := range r.s.cards {
		if c.ContainerID == containerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r cardRepo) UpdatePlacement(_ context.Context, id, containerID uuid.UUID, position int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	target, err := r.s.containerLocked(containerID)
	if err != nil {
		return fmt.Errorf("memory: container %s: %w", containerID, err)
	}
	c, ok := r.s.cards[id]
	if !ok {
		return fmt.Errorf("memory: card %s: %w", id, domain.ErrConflict)
	}
	c.ContainerID = containerID
	c.BoardID = target.BoardID
	c.Position = position
	c.UpdatedAt = time.Now()
	return nil
}

// Update writes payload fields only. Placement (container, board, position)
// is owned by UpdatePlacement, so a stale edit cannot revert a concurrent
// move.
func (r cardRepo) Update(_ context.Context, c *domain.Card) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.cards[c.ID]
	if !ok {
		return fmt.Errorf("memory: card %s: %w", c.ID, domain.ErrNotFound)
	}
	cur.Title = c.Title
	cur.Description = c.Description
	cur.UpdatedAt = time.Now()
	return nil
}

func (r cardRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cards[id]; !ok {
		return fmt.Errorf("memory: card %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.cards, id)
	return nil
}

// ---------------------------------------------------------------------------
// Inboxes
// ---------------------------------------------------------------------------

type inboxRepo struct{ s *Store }

func (r inboxRepo) ForUser(_ context.Context, userID uuid.UUID) (*domain.Inbox, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if in, ok := r.s.inboxByUser[userID]; ok {
		cp := *in
		return &cp, nil
	}
	in := &domain.Inbox{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	r.s.inboxByUser[userID] = in
	r.s.inboxByID[in.ID] = in
	cp := *in
	return &cp, nil
}
