package service_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/domain"
	"github.com/aussiebroadwan/gatehouse/internal/auth/events"
	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.accounts.Register(ctx, service.RegisterInput{
		Email:    " Alice@X.com ",
		Username: "alice",
		Password: "password123",
	})
	require.NoError(t, err)
	require.True(t, h.tokens.Validate(pair.AccessToken))

	u := h.user(t, "alice@x.com")
	require.Equal(t, domain.ProviderLocal, u.AuthProvider)
	require.False(t, u.Verified)
	require.NotEqual(t, "password123", u.PasswordHash)

	ev, ok := h.events.Last(events.TopicAccountCreation)
	require.True(t, ok)
	created := ev.Payload.(events.AccountCreated)
	require.Equal(t, u.ID, created.UserID)

	claims, err := h.tokens.Parse(created.VerificationToken)
	require.NoError(t, err)
	require.True(t, claims.Extension(jwtx.ExtVerification))

	_, err = h.accounts.Register(ctx, service.RegisterInput{Email: "alice@x.com", Username: "again", Password: "password123"})
	require.ErrorIs(t, err, service.ErrUserAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	cases := map[string]service.RegisterInput{
		"bad email":      {Email: "not-an-email", Username: "a", Password: "password123"},
		"display name":   {Email: "Alice <a@x.com>", Username: "a", Password: "password123"},
		"short password": {Email: "a@x.com", Username: "a", Password: "short"},
		"no username":    {Email: "a@x.com", Username: "  ", Password: "password123"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.accounts.Register(context.Background(), in)
			require.ErrorIs(t, err, service.ErrInvalidRequest)
		})
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Topic, string, any) error {
	return errors.New("broker down")
}
func (failingPublisher) Close() error { return nil }

func TestRegisterSurvivesPublishFailure(t *testing.T) {
	h := newHarness(t)
	h.accounts.Events = failingPublisher{}

	_, err := h.accounts.Register(context.Background(), service.RegisterInput{
		Email: "a@x.com", Username: "a", Password: "password123",
	})
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "a@x.com", "password123")
	h.createFederated(t, "fed@x.com", domain.ProviderGoogle)

	res, err := h.accounts.Login(ctx, "A@x.com", "password123")
	require.NoError(t, err)
	require.False(t, res.TwoFactorRequired)
	require.NotNil(t, res.Tokens)

	_, err = h.accounts.Login(ctx, "a@x.com", "wrong-password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = h.accounts.Login(ctx, "ghost@x.com", "password123")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = h.accounts.Login(ctx, "fed@x.com", "")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	require.NoError(t, h.store.Users().SetBanned(ctx, h.user(t, "a@x.com").ID, true))
	_, err = h.accounts.Login(ctx, "a@x.com", "password123")
	require.ErrorIs(t, err, service.ErrBannedUser)
}

func TestConfirmEmail(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.accounts.Register(ctx, service.RegisterInput{Email: "a@x.com", Username: "a", Password: "password123"})
	require.NoError(t, err)
	ev, _ := h.events.Last(events.TopicAccountCreation)
	token := ev.Payload.(events.AccountCreated).VerificationToken

	// An ordinary access token cannot confirm an address.
	_, err = h.accounts.ConfirmEmail(ctx, pair.AccessToken)
	require.ErrorIs(t, err, service.ErrTokenMalformed)

	confirmed, err := h.accounts.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	require.True(t, h.tokens.Validate(confirmed.AccessToken))
	require.True(t, h.user(t, "a@x.com").Verified)

	_, ok := h.events.Last(events.TopicAccountVerification)
	require.True(t, ok)

	_, err = h.accounts.ConfirmEmail(ctx, token)
	require.ErrorIs(t, err, service.ErrTokenRevoked)

	_, err = h.accounts.ConfirmEmail(ctx, "garbage")
	require.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestEmailChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	pair := h.register(t, "a@x.com", "password123")
	h.register(t, "taken@x.com", "password123")
	p := principalFor(t, h, pair.AccessToken)

	require.ErrorIs(t, h.accounts.RequestEmailChange(ctx, p, "taken@x.com"), service.ErrUserAlreadyExists)
	require.ErrorIs(t, h.accounts.RequestEmailChange(ctx, p, "a@x.com"), service.ErrInvalidRequest)
	require.ErrorIs(t, h.accounts.RequestEmailChange(ctx, p, "nope"), service.ErrInvalidRequest)

	require.NoError(t, h.accounts.RequestEmailChange(ctx, p, "new@x.com"))
	require.Equal(t, service.EmailChangeTTL, h.mr.TTL(cache.PrefixEmailChange+"new@x.com"))

	// A second request for the same address is refused while one is pending.
	require.ErrorIs(t, h.accounts.RequestEmailChange(ctx, p, "new@x.com"), service.ErrUserAlreadyExists)

	ev, ok := h.events.Last(events.TopicEmailChange)
	require.True(t, ok)
	req := ev.Payload.(events.EmailChangeRequested)
	require.Equal(t, "new@x.com", req.NewEmail)
	n, err := strconv.Atoi(req.Code)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 1000)
	require.LessOrEqual(t, n, 9999)

	wrong := strconv.Itoa(1000 + (n-1000+1)%9000)
	_, err = h.accounts.ConfirmEmailChange(ctx, p, "new@x.com", wrong)
	require.ErrorIs(t, err, service.ErrInvalidVerificationCode)

	_, err = h.accounts.ConfirmEmailChange(ctx, p, "other@x.com", req.Code)
	require.ErrorIs(t, err, service.ErrInvalidVerificationCode)

	next, err := h.accounts.ConfirmEmailChange(ctx, p, "new@x.com", req.Code)
	require.NoError(t, err)

	sub, err := h.tokens.ExtractSubject(next.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "new@x.com", sub)

	revoked, err := h.revocations.IsRevoked(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.True(t, revoked)

	exists, err := h.cache.Exists(ctx, cache.PrefixEmailChange+"new@x.com")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestEmailChangeCodeBoundToRequester(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	alice := principalFor(t, h, h.register(t, "a@x.com", "password123").AccessToken)
	bob := principalFor(t, h, h.register(t, "b@x.com", "password123").AccessToken)

	require.NoError(t, h.accounts.RequestEmailChange(ctx, alice, "new@x.com"))
	ev, _ := h.events.Last(events.TopicEmailChange)
	code := ev.Payload.(events.EmailChangeRequested).Code

	_, err := h.accounts.ConfirmEmailChange(ctx, bob, "new@x.com", code)
	require.ErrorIs(t, err, service.ErrInvalidVerificationCode)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	pair := h.register(t, "a@x.com", "password123")

	require.ErrorIs(t, h.accounts.ForgotPassword(ctx, "ghost@x.com"), service.ErrInvalidCredentials)
	require.NoError(t, h.accounts.ForgotPassword(ctx, "a@x.com"))

	ev, ok := h.events.Last(events.TopicPasswordReset)
	require.True(t, ok)
	reset := ev.Payload.(events.PasswordResetRequested).ResetToken

	require.ErrorIs(t, h.accounts.ResetPassword(ctx, reset, "short", ""), service.ErrInvalidRequest)
	require.ErrorIs(t, h.accounts.ResetPassword(ctx, pair.AccessToken, "new-password", ""), service.ErrTokenMalformed)

	require.NoError(t, h.accounts.ResetPassword(ctx, reset, "new-password", pair.AccessToken))

	_, err := h.accounts.Login(ctx, "a@x.com", "password123")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	res, err := h.accounts.Login(ctx, "a@x.com", "new-password")
	require.NoError(t, err)
	require.NotNil(t, res.Tokens)

	revoked, err := h.revocations.IsRevoked(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.True(t, revoked)

	require.ErrorIs(t, h.accounts.ResetPassword(ctx, reset, "another-password", ""), service.ErrTokenRevoked)
}

func TestForgotPasswordFederatedAccount(t *testing.T) {
	h := newHarness(t)
	h.createFederated(t, "fed@x.com", domain.ProviderGitHub)

	err := h.accounts.ForgotPassword(context.Background(), "fed@x.com")
	require.ErrorIs(t, err, service.ErrProviderMismatch)
}

func TestCredentials(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "a@x.com", "password123")

	creds, err := h.accounts.Credentials(ctx, "A@X.com")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", creds.Email)
	require.True(t, strings.HasPrefix(creds.PasswordHash, "$argon2id$"))
	require.True(t, creds.Verified)

	_, err = h.accounts.Credentials(ctx, "ghost@x.com")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}
