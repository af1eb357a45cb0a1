package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/gatehouse/internal/auth/domain"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gatehouse/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newUser(email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     "alice",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := newUser("Alice@X.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byEmail, err := s.Users().GetUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, "alice@x.com", byEmail.Email, "emails are stored lowercase")
	require.Equal(t, domain.ProviderLocal, byEmail.AuthProvider)
	require.False(t, byEmail.Verified)
	require.False(t, byEmail.Banned)
	require.Nil(t, byEmail.TwoFactorSecret)
	require.False(t, byEmail.CreatedAt.IsZero())

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, byEmail, byID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, newUser("a@x.com")))
	err := s.Users().CreateUser(ctx, newUser("A@X.COM"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUserNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Users().GetUserByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Users().MarkVerified(ctx, "missing"), store.ErrNotFound)
}

func TestUserMutations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	users := s.Users()

	u := newUser("a@x.com")
	require.NoError(t, users.CreateUser(ctx, u))
	require.NoError(t, users.CreateUser(ctx, newUser("taken@x.com")))

	require.NoError(t, users.MarkVerified(ctx, u.ID))
	require.NoError(t, users.SetBanned(ctx, u.ID, true))
	require.NoError(t, users.UpdatePasswordHash(ctx, u.ID, "new-hash"))

	// No secret yet, so enabling matches nothing
	require.ErrorIs(t, users.EnableTwoFactor(ctx, u.ID), store.ErrNotFound)
	require.NoError(t, users.UpdateTwoFactorSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"))
	require.NoError(t, users.EnableTwoFactor(ctx, u.ID))

	require.ErrorIs(t, users.UpdateEmail(ctx, u.ID, "taken@x.com"), store.ErrAlreadyExists)
	require.NoError(t, users.UpdateEmail(ctx, u.ID, "B@x.com"))

	got, err := users.GetUserByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.True(t, got.Verified)
	require.True(t, got.Banned)
	require.True(t, got.TwoFactorEnabled)
	require.True(t, got.HasTwoFactorSecret())
	require.Equal(t, "JBSWY3DPEHPK3PXP", *got.TwoFactorSecret)
	require.Equal(t, "new-hash", got.PasswordHash)

	require.NoError(t, users.DeleteUser(ctx, u.ID))
	_, err = users.GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, newUser("rolled@x.com")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByEmail(ctx, "rolled@x.com")
	require.ErrorIs(t, err, store.ErrNotFound, "failed tx must roll back")

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, newUser("kept@x.com"))
	}))

	_, err = s.Users().GetUserByEmail(ctx, "kept@x.com")
	require.NoError(t, err)

	require.NoError(t, s.Ping(ctx))
}
