package service_test

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/events"
	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

// enableTwoFactor provisions and enables TOTP, returning the secret.
func enableTwoFactor(t *testing.T, h *harness, email string) string {
	t.Helper()
	ctx := context.Background()

	_, err := h.twoFactor.Setup(ctx, email)
	require.NoError(t, err)

	secret := *h.user(t, email).TwoFactorSecret
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, h.twoFactor.Enable(ctx, email, code))
	return secret
}

func TestSetupBannedUserGeneratesNoSecret(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "a@x.com", "password123")
	require.NoError(t, h.store.Users().SetBanned(ctx, h.user(t, "a@x.com").ID, true))

	_, err := h.twoFactor.Setup(ctx, "a@x.com")
	require.ErrorIs(t, err, service.ErrBannedUser)
	require.Nil(t, h.user(t, "a@x.com").TwoFactorSecret)

	_, published := h.events.Last(events.TopicTwoFactorSecretSave)
	require.False(t, published)
}

func TestSetupRequiresVerifiedAccount(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.accounts.Register(ctx, service.RegisterInput{Email: "a@x.com", Username: "a", Password: "password123"})
	require.NoError(t, err)

	_, err = h.twoFactor.Setup(ctx, "a@x.com")
	require.ErrorIs(t, err, service.ErrUnverifiedUser)
	require.Nil(t, h.user(t, "a@x.com").TwoFactorSecret)

	_, err = h.twoFactor.Setup(ctx, "ghost@x.com")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestSetupAndEnable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "a@x.com", "password123")

	setup, err := h.twoFactor.Setup(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(setup.OTPAuthURL, "otpauth://totp/"))
	require.Equal(t, fmt.Sprintf(service.DefaultQRURLTemplate, url.QueryEscape(setup.OTPAuthURL)), setup.QRCodeURL)

	u := h.user(t, "a@x.com")
	require.True(t, u.HasTwoFactorSecret())
	require.False(t, u.TwoFactorEnabled)

	ev, ok := h.events.Last(events.TopicTwoFactorSecretSave)
	require.True(t, ok)
	require.Equal(t, "a@x.com", ev.Key)

	require.ErrorIs(t, h.twoFactor.Enable(ctx, "a@x.com", "000000x"), service.ErrInvalidOtp)

	code, err := totp.GenerateCode(*u.TwoFactorSecret, time.Now())
	require.NoError(t, err)
	require.NoError(t, h.twoFactor.Enable(ctx, "a@x.com", code))
	require.True(t, h.user(t, "a@x.com").TwoFactorEnabled)

	_, ok = h.events.Last(events.TopicTwoFactorEnabled)
	require.True(t, ok)

	_, err = h.twoFactor.Setup(ctx, "a@x.com")
	require.ErrorIs(t, err, service.ErrTwoFactorAlreadyEnabled)
}

func TestVerifyCodeWithoutSecret(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@x.com", "password123")

	err := h.twoFactor.VerifyCode(context.Background(), "a@x.com", "123456")
	require.ErrorIs(t, err, service.ErrInvalidOtp)
}

func TestVerifyCodePadsFiveDigits(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "a@x.com", "password123")
	secret := enableTwoFactor(t, h, "a@x.com")

	// Find a window whose code starts with a zero.
	at := time.Now()
	var code string
	for i := 0; i < 10000; i++ {
		c, err := totp.GenerateCode(secret, at)
		require.NoError(t, err)
		if c[0] == '0' {
			code = c
			break
		}
		at = at.Add(30 * time.Second)
	}
	require.NotEmpty(t, code)

	h.twoFactor.Now = func() time.Time { return at }
	require.NoError(t, h.twoFactor.VerifyCode(ctx, "a@x.com", code[1:]))
	require.NoError(t, h.twoFactor.VerifyCode(ctx, "a@x.com", code))
}

func TestTwoFactorLoginGate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "a@x.com", "password123")
	secret := enableTwoFactor(t, h, "a@x.com")

	res, err := h.accounts.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	require.True(t, res.TwoFactorRequired)
	require.Nil(t, res.Tokens)
	require.Equal(t, service.ChallengeTTL, h.mr.TTL(cache.PrefixTwoFactor+"a@x.com"))

	_, err = h.twoFactor.LoginSecondFactor(ctx, "a@x.com", "999999")
	require.ErrorIs(t, err, service.ErrInvalidOtp)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	pair, err := h.twoFactor.LoginSecondFactor(ctx, "a@x.com", code)
	require.NoError(t, err)
	require.True(t, h.tokens.Validate(pair.AccessToken))
	require.NotEmpty(t, pair.RefreshToken)

	_, err = h.twoFactor.LoginSecondFactor(ctx, "a@x.com", code)
	require.ErrorIs(t, err, service.ErrTwoFactorNotRequired)
}

func TestTwoFactorChallengeExpires(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "a@x.com", "password123")
	secret := enableTwoFactor(t, h, "a@x.com")

	require.NoError(t, h.twoFactor.BeginChallenge(ctx, "a@x.com"))
	h.mr.FastForward(service.ChallengeTTL + time.Second)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	_, err = h.twoFactor.LoginSecondFactor(ctx, "a@x.com", code)
	require.ErrorIs(t, err, service.ErrTwoFactorNotRequired)
}
