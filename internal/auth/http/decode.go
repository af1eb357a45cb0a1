package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/gatehouse/internal/auth/domain"
	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

const maxBodyBytes = 1 << 16

// decodeBody reads a JSON request body into v. On failure it writes a 400
// and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		slogx.FromContext(r.Context()).Info("failed to parse request", "err", err)
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Invalid JSON body.").WriteError(w)
		return false
	}
	return true
}

// principal returns the caller placed in the context by the gateway. Routes
// using it are wrapped in RequireAuthentication.
func principal(r *http.Request) httpx.Principal {
	p, _ := httpx.PrincipalFromContext(r.Context())
	return p
}

func writeTokens(w http.ResponseWriter, status int, pair *domain.TokenPair) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, status, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	})
}
