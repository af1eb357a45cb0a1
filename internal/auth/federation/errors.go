package federation

import "errors"

var (
	ErrUnsupportedProvider         = errors.New("unsupported_provider")
	ErrCookieDeserializationFailed = errors.New("cookie_deserialization_failed")
	ErrHandshakeStateMismatch      = errors.New("state_mismatch")
	ErrProfileIncomplete           = errors.New("profile_incomplete")
	ErrExchangeFailed              = errors.New("code_exchange_failed")
)
