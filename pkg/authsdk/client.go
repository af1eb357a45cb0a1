package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Header names understood by the auth service.
const (
	RefreshTokenHeader  = "X-Refresh-Token"
	PrivateSecretHeader = "PrivateSecret"
)

// SDKClient is a client for the gatehouse authentication service.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// PrivateSecret is sent on internal routes. Only sibling services set it.
	PrivateSecret string
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword logs in and wraps the tokens in a Session. When
// the account has two-factor enabled the returned error is
// ErrTwoFactorRequired; finish with AuthenticateWithTwoFactor.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, error) {
	res, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if res.TwoFactorRequired {
		return nil, ErrTwoFactorRequired
	}
	return newSession(c, &res.TokenResponse), nil
}

// AuthenticateWithTwoFactor completes a pending two-factor login.
func (c *SDKClient) AuthenticateWithTwoFactor(ctx context.Context, email, code string) (*Session, error) {
	tokens, err := c.LoginSecondFactor(ctx, email, code)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokens), nil
}

// AuthenticateWithRefreshToken creates a session from a stored refresh token.
func (c *SDKClient) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	tokens, err := c.Access(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	tokens.RefreshToken = refreshToken
	return newSession(c, tokens), nil
}

// NewSessionFromTokens creates a session from tokens obtained elsewhere.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int64) *Session {
	return newSession(c, &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	})
}
