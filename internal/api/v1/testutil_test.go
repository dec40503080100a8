package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/collection"
	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject the caller into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeyUserID, userID)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users      domain.UserRepository
	boards     domain.BoardRepository
	lists      domain.ListRepository
	cards      domain.CardRepository
	inboxes    domain.InboxRepository
	containers domain.ContainerResolver
}

func (m *mockDataStore) Users() domain.UserRepository          { return m.users }
func (m *mockDataStore) Boards() domain.BoardRepository        { return m.boards }
func (m *mockDataStore) Lists() domain.ListRepository          { return m.lists }
func (m *mockDataStore) Cards() domain.CardRepository          { return m.cards }
func (m *mockDataStore) Inboxes() domain.InboxRepository       { return m.inboxes }
func (m *mockDataStore) Containers() domain.ContainerResolver { return m.containers }

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc       func(ctx context.Context, b *domain.Board) error
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	listForUserFunc  func(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	updateFunc       func(ctx context.Context, b *domain.Board) error
	deleteFunc       func(ctx context.Context, id uuid.UUID) error
	addMemberFunc    func(ctx context.Context, m *domain.BoardMember) error
	removeMemberFunc func(ctx context.Context, boardID, userID uuid.UUID) error
	isMemberFunc     func(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
	listMembersFunc  func(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error)
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBoardRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	return m.listForUserFunc(ctx, userID)
}

func (m *mockBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockBoardRepo) AddMember(ctx context.Context, member *domain.BoardMember) error {
	return m.addMemberFunc(ctx, member)
}

func (m *mockBoardRepo) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	return m.removeMemberFunc(ctx, boardID, userID)
}

func (m *mockBoardRepo) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	return m.isMemberFunc(ctx, boardID, userID)
}

func (m *mockBoardRepo) ListMembers(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error) {
	return m.listMembersFunc(ctx, boardID)
}

// ---------------------------------------------------------------------------
// Mock ListRepository
// ---------------------------------------------------------------------------

type mockListRepo struct {
	createFunc          func(ctx context.Context, l *domain.List) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.List, error)
	listByBoardFunc     func(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error)
	updatePlacementFunc func(ctx context.Context, id, boardID uuid.UUID, position int64) error
	updateFunc          func(ctx context.Context, l *domain.List) error
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func (m *mockListRepo) Create(ctx context.Context, l *domain.List) error {
	return m.createFunc(ctx, l)
}

func (m *mockListRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockListRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockListRepo) UpdatePlacement(ctx context.Context, id, boardID uuid.UUID, position int64) error {
	return m.updatePlacementFunc(ctx, id, boardID, position)
}

func (m *mockListRepo) Update(ctx context.Context, l *domain.List) error {
	return m.updateFunc(ctx, l)
}

func (m *mockListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock CardRepository
// ---------------------------------------------------------------------------

type mockCardRepo struct {
	createFunc          func(ctx context.Context, c *domain.Card) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	listByContainerFunc func(ctx context.Context, containerID uuid.UUID) ([]*domain.Card, error)
	updatePlacementFunc func(ctx context.Context, id, containerID uuid.UUID, position int64) error
	updateFunc          func(ctx context.Context, c *domain.Card) error
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCardRepo) Create(ctx context.Context, c *domain.Card) error {
	return m.createFunc(ctx, c)
}

func (m *mockCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCardRepo) ListByContainer(ctx context.Context, containerID uuid.UUID) ([]*domain.Card, error) {
	return m.listByContainerFunc(ctx, containerID)
}

func (m *mockCardRepo) UpdatePlacement(ctx context.Context, id, containerID uuid.UUID, position int64) error {
	return m.updatePlacementFunc(ctx, id, containerID, position)
}

func (m *mockCardRepo) Update(ctx context.Context, c *domain.Card) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

// ---------------------------------------------------------------------------
// Mock InboxRepository / ContainerResolver
// ---------------------------------------------------------------------------

type mockInboxRepo struct {
	forUserFunc func(ctx context.Context, userID uuid.UUID) (*domain.Inbox, error)
}

func (m *mockInboxRepo) ForUser(ctx context.Context, userID uuid.UUID) (*domain.Inbox, error) {
	return m.forUserFunc(ctx, userID)
}

type mockContainerResolver struct {
	containerFunc func(ctx context.Context, id uuid.UUID) (*domain.Container, error)
}

func (m *mockContainerResolver) Container(ctx context.Context, id uuid.UUID) (*domain.Container, error) {
	return m.containerFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock Mutator
// ---------------------------------------------------------------------------

type mockMutator struct {
	createCardFunc func(ctx context.Context, callerID uuid.UUID, in collection.CreateCardInput) (*domain.Card, error)
	moveCardFunc   func(ctx context.Context, req collection.MoveCardRequest) (*domain.Card, error)
	editCardFunc   func(ctx context.Context, callerID, cardID uuid.UUID, patch collection.CardPatch) (*domain.Card, error)
	deleteCardFunc func(ctx context.Context, callerID, cardID uuid.UUID) error

	createListFunc func(ctx context.Context, callerID uuid.UUID, in collection.CreateListInput) (*domain.List, error)
	moveListFunc   func(ctx context.Context, req collection.MoveListRequest) (*domain.List, error)
	renameListFunc func(ctx context.Context, callerID, listID uuid.UUID, title string) (*domain.List, error)
	deleteListFunc func(ctx context.Context, callerID, listID uuid.UUID) error
}

func (m *mockMutator) CreateCard(ctx context.Context, callerID uuid.UUID, in collection.CreateCardInput) (*domain.Card, error) {
	return m.createCardFunc(ctx, callerID, in)
}

func (m *mockMutator) MoveCard(ctx context.Context, req collection.MoveCardRequest) (*domain.Card, error) {
	return m.moveCardFunc(ctx, req)
}

func (m *mockMutator) EditCard(ctx context.Context, callerID, cardID uuid.UUID, patch collection.CardPatch) (*domain.Card, error) {
	return m.editCardFunc(ctx, callerID, cardID, patch)
}

func (m *mockMutator) DeleteCard(ctx context.Context, callerID, cardID uuid.UUID) error {
	return m.deleteCardFunc(ctx, callerID, cardID)
}

func (m *mockMutator) CreateList(ctx context.Context, callerID uuid.UUID, in collection.CreateListInput) (*domain.List, error) {
	return m.createListFunc(ctx, callerID, in)
}

func (m *mockMutator) MoveList(ctx context.Context, req collection.MoveListRequest) (*domain.List, error) {
	return m.moveListFunc(ctx, req)
}

func (m *mockMutator) RenameList(ctx context.Context, callerID, listID uuid.UUID, title string) (*domain.List, error) {
	return m.renameListFunc(ctx, callerID, listID, title)
}

func (m *mockMutator) DeleteList(ctx context.Context, callerID, listID uuid.UUID) error {
	return m.deleteListFunc(ctx, callerID, listID)
}

// ---------------------------------------------------------------------------
// Mock Access
// ---------------------------------------------------------------------------

type mockAccess struct {
	containerFunc func(ctx context.Context, callerID, containerID uuid.UUID) (bool, error)
	boardFunc     func(ctx context.Context, callerID, boardID uuid.UUID) (bool, error)
}

func (m *mockAccess) CanAccessContainer(ctx context.Context, callerID, containerID uuid.UUID) (bool, error) {
	return m.containerFunc(ctx, callerID, containerID)
}

func (m *mockAccess) CanAccessBoard(ctx context.Context, callerID, boardID uuid.UUID) (bool, error) {
	return m.boardFunc(ctx, callerID, boardID)
}

// allowAll grants board and container access unconditionally.
func allowAll() *mockAccess {
	return &mockAccess{
		containerFunc: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return true, nil },
		boardFunc:     func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return true, nil },
	}
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc func(ctx context.Context, email, password, name string) (*domain.User, error)
	loginFunc    func(ctx context.Context, email, password string) (string, string, error)
	refreshFunc  func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshFunc(ctx, refreshToken)
}
