package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
)

// TwoFactorHandler serves the /2fa routes.
type TwoFactorHandler struct {
	TwoFactor *service.TwoFactorService
}

// HandleSetup handles POST /2fa/setup
//
//	@Summary		Provision a TOTP secret
//	@Description	Generates a secret for the caller and returns the otpauth URI and a QR code link.
//	@Description	Two-factor stays disabled until a code is confirmed at POST /2fa/verify.
//	@Tags			Two-Factor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.TwoFactorSetupResponse	"Provisioning URI"
//	@Failure		400	{object}	authsdk.ErrorResponse			"Banned, unverified or already enabled"
//	@Failure		401	{object}	authsdk.ErrorResponse			"Missing or revoked access token"
//	@Router			/2fa/setup [post].
func (h *TwoFactorHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	setup, err := h.TwoFactor.Setup(r.Context(), principal(r).Subject)
	if err != nil {
		writeServiceError(w, r, "two-factor setup failed", err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TwoFactorSetupResponse{
		OTPAuthURL: setup.OTPAuthURL,
		QRCodeURL:  setup.QRCodeURL,
	})
}

// HandleVerify handles POST /2fa/verify
//
//	@Summary		Enable two-factor
//	@Description	Confirms the provisioned secret with a current code and turns two-factor on.
//	@Tags			Two-Factor
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.TwoFactorCodeRequest	true	"Current TOTP code"
//	@Success		204		"Two-factor enabled"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid code or missing access token"
//	@Router			/2fa/verify [post].
func (h *TwoFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TwoFactorCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.TwoFactor.Enable(r.Context(), principal(r).Subject, req.Code); err != nil {
		writeServiceError(w, r, "two-factor verify failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogin handles POST /2fa/login
//
//	@Summary		Complete a two-factor login
//	@Description	Exchanges a TOTP code for a token pair after POST /auth/login reported
//	@Description	two_factor_required. The challenge expires after five minutes.
//	@Tags			Two-Factor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TwoFactorLoginRequest	true	"Email and TOTP code"
//	@Success		200		{object}	authsdk.TokenResponse			"Token pair"
//	@Failure		400		{object}	authsdk.ErrorResponse			"No pending challenge or banned account"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid code"
//	@Router			/2fa/login [post].
func (h *TwoFactorHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TwoFactorLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := h.TwoFactor.LoginSecondFactor(r.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(w, r, "two-factor login failed", err)
		return
	}
	writeTokens(w, http.StatusOK, pair)
}
