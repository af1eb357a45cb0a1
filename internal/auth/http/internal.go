package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
)

// InternalHandler serves routes reserved for sibling services.
type InternalHandler struct {
	Accounts *service.AccountService
}

// HandleLookupUser handles GET /internal/users/{email}
//
//	@Summary		Look up user credentials
//	@Description	Returns the stored credential record, including the password hash and TOTP secret.
//	@Description	Requires the shared secret in the PrivateSecret header.
//	@Tags			Internal
//	@Produce		json
//	@Param			PrivateSecret	header		string					true	"Shared service secret"
//	@Param			email			path		string					true	"Account email"
//	@Success		200				{object}	authsdk.UserCredentials	"Credential record"
//	@Failure		400				{object}	authsdk.ErrorResponse	"Unknown account"
//	@Failure		401				{object}	authsdk.ErrorResponse	"Missing or wrong secret"
//	@Router			/internal/users/{email} [get].
func (h *InternalHandler) HandleLookupUser(w http.ResponseWriter, r *http.Request) {
	creds, err := h.Accounts.Credentials(r.Context(), r.PathValue("email"))
	if err != nil {
		writeServiceError(w, r, "user lookup failed", err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.UserCredentials(creds))
}
