//go:build e2e

package auth_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestE2E_TwoFactorLogin(t *testing.T) {
	env := setupTestEnvironment(t)
	ctx := context.Background()

	tokens := env.registerVerified(t, ctx, "ada@example.com", "ada")
	session := env.Client.NewSessionFromTokens(tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn)

	setup, err := session.SetupTwoFactor(ctx)
	require.NoError(t, err)

	key, err := url.Parse(setup.OTPAuthURL)
	require.NoError(t, err)
	secret := key.Query().Get("secret")
	require.NotEmpty(t, secret)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, session.EnableTwoFactor(ctx, code))

	_, err = session.SetupTwoFactor(ctx)
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeTwoFactorAlreadyEnabled), "got %v", err)

	// The password alone now only opens a challenge.
	_, err = env.Client.AuthenticateWithPassword(ctx, "ada@example.com", env.Password)
	require.True(t, errors.Is(err, authsdk.ErrTwoFactorRequired), "got %v", err)

	_, err = env.Client.AuthenticateWithTwoFactor(ctx, "ada@example.com", "abcdef")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeInvalidOtp), "got %v", err)

	code, err = totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	second, err := env.Client.AuthenticateWithTwoFactor(ctx, "ada@example.com", code)
	require.NoError(t, err)
	require.NoError(t, second.Logout(ctx))

	// The challenge is consumed by a successful login.
	_, err = env.Client.AuthenticateWithTwoFactor(ctx, "ada@example.com", code)
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeTwoFactorNotRequired), "got %v", err)
}
