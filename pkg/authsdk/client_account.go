package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ErrTwoFactorRequired is returned by AuthenticateWithPassword for accounts
// that must complete POST /2fa/login.
var ErrTwoFactorRequired = errors.New("authsdk: two-factor code required")

// Register creates a local account and returns its first token pair.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, nil)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusCreated); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Login checks a password. Check TwoFactorRequired on the result.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginSecondFactor completes a pending two-factor login.
func (c *SDKClient) LoginSecondFactor(ctx context.Context, email, code string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/2fa/login", TwoFactorLoginRequest{Email: email, Code: code}, nil)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// ConfirmEmail redeems an email confirmation token.
func (c *SDKClient) ConfirmEmail(ctx context.Context, token string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth?token="+url.QueryEscape(token), nil, nil)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Access mints a new access token from a refresh token.
func (c *SDKClient) Access(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.exchangeRefresh(ctx, "/auth/access", refreshToken)
}

// Refresh mints a new access token and a new refresh token.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.exchangeRefresh(ctx, "/auth/refresh", refreshToken)
}

func (c *SDKClient) exchangeRefresh(ctx context.Context, path, refreshToken string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, path, nil, map[string]string{
		RefreshTokenHeader: refreshToken,
	})
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// ForgotPassword asks for a reset token to be delivered to email.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/forgot-password", ForgotPasswordRequest{Email: email}, nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusAccepted)
}

// ResetPassword redeems a reset token.
func (c *SDKClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/reset-password",
		ResetPasswordRequest{Token: token, NewPassword: newPassword}, nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

// FederatedLoginURL is where a browser starts a login with provider.
func (c *SDKClient) FederatedLoginURL(provider, redirectURI string) string {
	u := c.url("/oauth2/authorization/" + url.PathEscape(provider))
	if redirectURI != "" {
		u += "?redirect_uri=" + url.QueryEscape(redirectURI)
	}
	return u
}
