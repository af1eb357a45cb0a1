//go:build e2e

package auth_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestE2E_InternalLookup(t *testing.T) {
	env := setupTestEnvironment(t)
	ctx := context.Background()

	env.registerVerified(t, ctx, "ada@example.com", "ada")

	creds, err := env.Client.LookupUser(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "ada", creds.Username)
	require.True(t, creds.Verified)
	require.NotEmpty(t, creds.PasswordHash)

	_, err = env.Client.LookupUser(ctx, "nobody@example.com")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeInvalidCredentials), "got %v", err)

	outsider := authsdk.NewSDKClient(env.Server.URL)
	outsider.PrivateSecret = "guess"
	_, err = outsider.LookupUser(ctx, "ada@example.com")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeInvalidCredentials), "got %v", err)
}
