package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
)

// AuthHandler serves the /auth routes: account lifecycle and sessions.
type AuthHandler struct {
	Accounts *service.AccountService
	Sessions *service.SessionService
}

// twoFactorPending is the login response for accounts with 2FA enabled.
type twoFactorPending struct {
	TwoFactorRequired bool   `json:"two_factor_required"`
	Message           string `json:"message"`
}

// HandleRegister handles POST /auth/register
//
//	@Summary		Register
//	@Description	Creates a local account, sends an email confirmation token and signs the user in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	authsdk.TokenResponse	"Token pair"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid input or email already registered"
//	@Failure		503		{object}	authsdk.ErrorResponse	"Session store unavailable"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := h.Accounts.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, "register failed", err)
		return
	}
	writeTokens(w, http.StatusCreated, pair)
}

// HandleLogin handles POST /auth/login
//
//	@Summary		Log in with email and password
//	@Description	Returns a token pair, or two_factor_required when the account has 2FA enabled.
//	@Description	In that case the code must be sent to POST /2fa/login within five minutes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"Token pair or pending two-factor challenge"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid credentials or banned account"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Too many attempts"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "login failed", err)
		return
	}
	if res.TwoFactorRequired {
		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, twoFactorPending{
			TwoFactorRequired: true,
			Message:           "Two-factor code required, submit it to /2fa/login.",
		})
		return
	}
	writeTokens(w, http.StatusOK, res.Tokens)
}

// HandleLogout handles DELETE /auth/logout
//
//	@Summary		Log out
//	@Description	Revokes the presented access token. Refresh tokens are not affected.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Token revoked"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Missing or revoked access token"
//	@Router			/auth/logout [delete].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context(), principal(r)); err != nil {
		writeServiceError(w, r, "logout failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAccess handles PUT /auth/access
//
//	@Summary		New access token
//	@Description	Exchanges the refresh token in X-Refresh-Token for a new access token.
//	@Tags			Auth
//	@Produce		json
//	@Param			X-Refresh-Token	header		string					true	"Refresh token"
//	@Success		200				{object}	authsdk.TokenResponse	"Access token"
//	@Failure		400				{object}	authsdk.ErrorResponse	"Banned account"
//	@Failure		401				{object}	authsdk.ErrorResponse	"Unknown or expired refresh token"
//	@Router			/auth/access [put].
func (h *AuthHandler) HandleAccess(w http.ResponseWriter, r *http.Request) {
	pair, err := h.Sessions.Access(r.Context(), r.Header.Get(authsdk.RefreshTokenHeader))
	if err != nil {
		writeServiceError(w, r, "access token refresh failed", err)
		return
	}
	writeTokens(w, http.StatusOK, pair)
}

// HandleRefresh handles PUT /auth/refresh
//
//	@Summary		Rotate refresh token
//	@Description	Returns a new access token and a new refresh token. The presented
//	@Description	refresh token stays valid until it expires.
//	@Tags			Auth
//	@Produce		json
//	@Param			X-Refresh-Token	header		string					true	"Refresh token"
//	@Success		200				{object}	authsdk.TokenResponse	"Token pair"
//	@Failure		400				{object}	authsdk.ErrorResponse	"Banned account"
//	@Failure		401				{object}	authsdk.ErrorResponse	"Unknown or expired refresh token"
//	@Router			/auth/refresh [put].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	pair, err := h.Sessions.Refresh(r.Context(), r.Header.Get(authsdk.RefreshTokenHeader))
	if err != nil {
		writeServiceError(w, r, "refresh failed", err)
		return
	}
	writeTokens(w, http.StatusOK, pair)
}

// HandleConfirmEmail handles GET /auth?token=
//
//	@Summary		Confirm email address
//	@Description	Redeems the confirmation token sent at registration.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	query		string					true	"Confirmation token"
//	@Success		200		{object}	authsdk.TokenResponse	"Token pair"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Unknown or banned account"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Malformed, expired or used token"
//	@Router			/auth [get].
func (h *AuthHandler) HandleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.Accounts.ConfirmEmail(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, "email confirmation failed", err)
		return
	}
	writeTokens(w, http.StatusOK, pair)
}

// HandleChangeEmail handles PATCH /auth/change-email
//
//	@Summary		Request email change
//	@Description	Sends a four digit code to the new address. The code is valid for one hour.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.ChangeEmailRequest	true	"New address"
//	@Success		202		"Code sent"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid or taken address"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Missing or revoked access token"
//	@Router			/auth/change-email [patch].
func (h *AuthHandler) HandleChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangeEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Accounts.RequestEmailChange(r.Context(), principal(r), req.NewEmail); err != nil {
		writeServiceError(w, r, "email change request failed", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleConfirmChangeEmail handles PATCH /auth/confirm-change-email
//
//	@Summary		Confirm email change
//	@Description	Redeems the emailed code, switches the account address and returns
//	@Description	tokens for the new address. The presented access token is revoked.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ConfirmChangeEmailRequest	true	"New address and code"
//	@Success		200		{object}	authsdk.TokenResponse				"Token pair"
//	@Failure		400		{object}	authsdk.ErrorResponse				"Invalid code"
//	@Failure		401		{object}	authsdk.ErrorResponse				"Missing or revoked access token"
//	@Router			/auth/confirm-change-email [patch].
func (h *AuthHandler) HandleConfirmChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ConfirmChangeEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := h.Accounts.ConfirmEmailChange(r.Context(), principal(r), req.NewEmail, req.Code)
	if err != nil {
		writeServiceError(w, r, "email change confirmation failed", err)
		return
	}
	writeTokens(w, http.StatusOK, pair)
}

// HandleForgotPassword handles POST /auth/forgot-password
//
//	@Summary		Forgot password
//	@Description	Emails a password reset token to a local account.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	authsdk.ForgotPasswordRequest	true	"Account email"
//	@Success		202		"Reset token sent"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Unknown, banned or federated account"
//	@Router			/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Accounts.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, "forgot password failed", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleResetPassword handles POST /auth/reset-password
//
//	@Summary		Reset password
//	@Description	Redeems a reset token. A valid bearer token sent along is revoked as well.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	authsdk.ResetPasswordRequest	true	"Reset token and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Password too short or banned account"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Malformed, expired or used token"
//	@Router			/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Accounts.ResetPassword(r.Context(), req.Token, req.NewPassword, principal(r).Token); err != nil {
		writeServiceError(w, r, "password reset failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
