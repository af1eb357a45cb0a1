package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
)

// Error codes returned in the "error" field.
const (
	ErrorCodeInvalidCredentials          = "invalid_credentials"
	ErrorCodeInvalidRequest              = "invalid_request"
	ErrorCodeTokenNotFound               = "token_not_found"
	ErrorCodeTokenMalformed              = "token_malformed"
	ErrorCodeTokenRevoked                = "token_revoked"
	ErrorCodeBannedUser                  = "banned_user"
	ErrorCodeUnverifiedUser              = "unverified_user"
	ErrorCodeUserAlreadyExists           = "user_already_exists"
	ErrorCodeInvalidVerificationCode     = "invalid_verification_code"
	ErrorCodeInvalidOtp                  = "invalid_otp"
	ErrorCodeTwoFactorNotRequired        = "two_factor_not_required"
	ErrorCodeTwoFactorAlreadyEnabled     = "two_factor_already_enabled"
	ErrorCodeUnsupportedProvider         = "unsupported_provider"
	ErrorCodeProviderMismatch            = "provider_mismatch"
	ErrorCodeCookieDeserializationFailed = "cookie_deserialization_failed"
	ErrorCodeStateMismatch               = "state_mismatch"
	ErrorCodeTemporarilyUnavailable      = "temporarily_unavailable"
	ErrorCodeServerError                 = "server_error"
)

// APIError is a failed request. It is written by the server and returned
// by the client, so both sides agree on the wire shape.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as the JSON response body.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

// NewAPIError creates an APIError with the given status, code and description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	ErrTemporarilyUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeTemporarilyUnavailable,
		Description: "the session store is unavailable, retry shortly",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
