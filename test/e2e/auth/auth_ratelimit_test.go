//go:build e2e

package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestE2E_LoginIsRateLimitedPerEmail(t *testing.T) {
	env := setupTestEnvironment(t)
	ctx := context.Background()

	for range 5 {
		_, err := env.Client.Login(ctx, "ada@example.com", "wrong password")
		require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeInvalidCredentials), "got %v", err)
	}

	_, err := env.Client.Login(ctx, "ada@example.com", "wrong password")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)

	// Another address from the same client has its own budget.
	_, err = env.Client.Login(ctx, "grace@example.com", "wrong password")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeInvalidCredentials), "got %v", err)
}
