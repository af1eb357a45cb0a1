package authsdk

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Session represents an authenticated session. Expiring access tokens are
// renewed from the refresh token before each call.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// newSession creates a new authenticated session from a token response.
func newSession(client *SDKClient, tokens *TokenResponse) *Session {
	s := &Session{client: client}
	s.store(tokens)
	return s
}

func (s *Session) store(tokens *TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		s.refreshToken = tokens.RefreshToken
	}
	// Subtract 30 seconds buffer to refresh before actual expiry
	s.expiresAt = time.Now().Add(time.Duration(tokens.ExpiresIn)*time.Second - 30*time.Second)
}

// Tokens returns the current access and refresh tokens.
func (s *Session) Tokens() (accessToken, refreshToken string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

// getValidToken returns a valid access token, renewing it if necessary.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, refresh, expiresAt := s.accessToken, s.refreshToken, s.expiresAt
	s.mu.RUnlock()

	if time.Now().Before(expiresAt) || refresh == "" {
		return token, nil
	}

	tokens, err := s.client.Access(ctx, refresh)
	if err != nil {
		return "", err
	}
	s.store(tokens)
	return tokens.AccessToken, nil
}

// Logout revokes the current access token. The refresh token keeps working.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

// RequestEmailChange sends a confirmation code to newEmail.
func (s *Session) RequestEmailChange(ctx context.Context, newEmail string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPatch, "/auth/change-email", ChangeEmailRequest{NewEmail: newEmail})
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusAccepted)
}

// ConfirmEmailChange redeems the code. The session switches to the tokens
// issued for the new address.
func (s *Session) ConfirmEmailChange(ctx context.Context, newEmail, code string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPatch, "/auth/confirm-change-email",
		ConfirmChangeEmailRequest{NewEmail: newEmail, Code: code})
	if err != nil {
		return err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return err
	}
	s.store(&tokens)
	return nil
}

// SetupTwoFactor provisions a TOTP secret for the caller.
func (s *Session) SetupTwoFactor(ctx context.Context) (*TwoFactorSetupResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/2fa/setup", nil)
	if err != nil {
		return nil, err
	}

	var out TwoFactorSetupResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnableTwoFactor confirms the provisioned secret with a current code.
func (s *Session) EnableTwoFactor(ctx context.Context, code string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/2fa/verify", TwoFactorCodeRequest{Code: code})
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}
