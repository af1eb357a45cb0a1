package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/federation"
	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

// errorTable maps every client-facing failure to its response. Order
// matters only where one sentinel wraps another.
var errorTable = []struct {
	err error
	api *authsdk.APIError
}{
	{service.ErrInvalidCredentials, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidCredentials, "Invalid credentials.")},
	{service.ErrInvalidRequest, authsdk.ErrInvalidRequest},
	{service.ErrTokenNotFound, authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeTokenNotFound, "Token not found.")},
	{service.ErrTokenMalformed, authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeTokenMalformed, "Token is malformed or expired.")},
	{service.ErrTokenRevoked, authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeTokenRevoked, "Token has been revoked.")},
	{service.ErrBannedUser, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeBannedUser, "Account is banned.")},
	{service.ErrUnverifiedUser, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeUnverifiedUser, "Account email is not verified.")},
	{service.ErrUserAlreadyExists, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeUserAlreadyExists, "An account with this email already exists.")},
	{service.ErrInvalidVerificationCode, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidVerificationCode, "Invalid verification code.")},
	{service.ErrInvalidOtp, authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeInvalidOtp, "Invalid one-time password.")},
	{service.ErrTwoFactorNotRequired, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeTwoFactorNotRequired, "No two-factor challenge is pending.")},
	{service.ErrTwoFactorAlreadyEnabled, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeTwoFactorAlreadyEnabled, "Two-factor authentication is already enabled.")},
	{service.ErrProviderMismatch, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeProviderMismatch, "Account is registered with a different provider.")},
	{federation.ErrUnsupportedProvider, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeUnsupportedProvider, "Unsupported login provider.")},
	{federation.ErrCookieDeserializationFailed, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeCookieDeserializationFailed, "Login request is missing or invalid.")},
	{federation.ErrHandshakeStateMismatch, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeStateMismatch, "Login state does not match.")},
	{federation.ErrExchangeFailed, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Authorization code was rejected by the provider.")},
	{federation.ErrProfileIncomplete, authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Provider profile has no usable email.")},
	{cache.ErrUnavailable, authsdk.ErrTemporarilyUnavailable},
}

// apiError translates err into its response. Unknown errors become a 500.
func apiError(err error) *authsdk.APIError {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.api
		}
	}
	return authsdk.ErrServerError
}

// writeServiceError logs err at a level matching its status and writes the
// mapped response.
func writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	api := apiError(err)
	log := slogx.FromContext(r.Context())
	switch {
	case api.StatusCode >= http.StatusInternalServerError:
		log.Error(msg, "err", err)
	default:
		log.Info(msg, "error", api.Code)
	}
	api.WriteError(w)
}
