package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plankhq/plank/internal/auth"
	"github.com/plankhq/plank/internal/domain"
	"github.com/plankhq/plank/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T) (*auth.Service, *memory.Store) {
	t.Helper()

	st := memory.New()
	return auth.NewService(st.Users(), testSecret, 15*time.Minute, 7*24*time.Hour), st
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "correct horse", "Ada")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "ada@example.com", "other", "Ada Again")
		assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	})

	t.Run("valid credentials", func(t *testing.T) {
		access, refresh, err := svc.Login(ctx, "ada@example.com", "correct horse")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		userID, err := auth.VerifyAccessToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob@example.com", "hunter22", "Bob")
	require.NoError(t, err)
	access, refresh, err := svc.Login(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("refresh token yields a new access token", func(t *testing.T) {
		newAccess, err := svc.Refresh(ctx, refresh)
		require.NoError(t, err)
		userID, err := auth.VerifyAccessToken(newAccess, testSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "eve@example.com", "password1", "Eve")
	require.NoError(t, err)
	access, _, err := svc.Login(ctx, "eve@example.com", "password1")
	require.NoError(t, err)

	_, err = auth.VerifyAccessToken(access, "another-secret-another-secret-00")
	assert.Error(t, err)
}

func TestAccess(t *testing.T) {
	t.Parallel()

	st := memory.New()
	ctx := context.Background()
	access := auth.NewAccess(st.Boards(), st.Containers())

	owner := uuid.New()
	member := uuid.New()
	stranger := uuid.New()

	board := &domain.Board{ID: uuid.New(), OwnerID: owner, Title: "b", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, st.Boards().Create(ctx, board))
	require.NoError(t, st.Boards().AddMember(ctx, &domain.BoardMember{BoardID: board.ID, UserID: member, Role: "member", AddedAt: time.Now()}))

	list := &domain.List{ID: uuid.New(), BoardID: board.ID, Title: "todo", Position: 1000, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, st.Lists().Create(ctx, list))

	inbox, err := st.Inboxes().ForUser(ctx, member)
	require.NoError(t, err)

	cases := []struct {
		name        string
		callerID    uuid.UUID
		containerID uuid.UUID
		want        bool
	}{
		{"owner on board", owner, board.ID, true},
		{"member on list", member, list.ID, true},
		{"stranger on list", stranger, list.ID, false},
		{"inbox owner", member, inbox.ID, true},
		{"inbox stranger", owner, inbox.ID, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := access.CanAccessContainer(ctx, tc.callerID, tc.containerID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown container", func(t *testing.T) {
		_, err := access.CanAccessContainer(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
