package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/gatehouse/internal/auth/federation"
	"github.com/aussiebroadwan/gatehouse/internal/auth/service"
	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

// OAuth2Handler runs the federated login handshake. The state lives in two
// signed, short-lived cookies between the two legs.
type OAuth2Handler struct {
	Federation *service.FederationService
	Cookies    *federation.Cookies
	Allowlist  federation.RedirectAllowlist

	SuccessURL string // used when the client sent no redirect_uri
	FailureURL string
}

// HandleAuthorization handles GET /oauth2/authorization/{provider}
//
//	@Summary		Start federated login
//	@Description	Stores the handshake in the oauth2_auth_request and redirect_uri cookies
//	@Description	and redirects the browser to the provider.
//	@Tags			OAuth2
//	@Param			provider		path	string	true	"google, github or discord"
//	@Param			redirect_uri	query	string	false	"Where to send the browser afterwards"
//	@Success		302				"Redirect to provider"
//	@Failure		400				{object}	authsdk.ErrorResponse	"Unsupported provider or redirect not allowed"
//	@Router			/oauth2/authorization/{provider} [get].
func (h *OAuth2Handler) HandleAuthorization(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	redirectURI := r.URL.Query().Get("redirect_uri")
	if !h.Allowlist.Allows(redirectURI) {
		slogx.FromContext(r.Context()).Info("redirect_uri not allowed", "redirect_uri", redirectURI)
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "redirect_uri is not allowed.").WriteError(w)
		return
	}

	authURL, st, err := h.Federation.Begin(r.Context(), provider)
	if err != nil {
		writeServiceError(w, r, "federated login start failed", err)
		return
	}
	if err := h.Cookies.Save(w, st, redirectURI); err != nil {
		writeServiceError(w, r, "failed to save handshake", err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback handles GET /login/oauth2/code/{provider}
//
//	@Summary		Federated login callback
//	@Description	Completes the handshake. Both handshake cookies are always cleared. On success
//	@Description	the browser is sent to the stored redirect with ?token=, otherwise to the
//	@Description	failure page with ?error=.
//	@Tags			OAuth2
//	@Param			provider	path	string	true	"google, github or discord"
//	@Param			code		query	string	true	"Authorization code"
//	@Param			state		query	string	true	"Handshake state"
//	@Success		302			"Redirect to the client"
//	@Router			/login/oauth2/code/{provider} [get].
func (h *OAuth2Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())
	provider := r.PathValue("provider")

	st, found, err := h.Cookies.Load(r)
	target := h.Cookies.RedirectURI(r)
	h.Cookies.Clear(w)

	if err == nil && !found {
		err = federation.ErrCookieDeserializationFailed
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	if upstream := q.Get("error"); upstream != "" {
		log.Info("provider denied login", "provider", provider, "upstream_error", upstream)
		h.fail(w, r, service.ErrInvalidCredentials)
		return
	}

	token, err := h.Federation.Complete(r.Context(), provider, st, q.Get("code"), q.Get("state"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// The target was checked against the allowlist before it was stored.
	if target == "" || !h.Allowlist.Allows(target) {
		target = h.SuccessURL
	}
	http.Redirect(w, r, withQuery(target, "token", token), http.StatusFound)
}

func (h *OAuth2Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	api := apiError(err)
	slogx.FromContext(r.Context()).Info("federated login failed", "error", api.Code, "err", err)
	http.Redirect(w, r, withQuery(h.FailureURL, "error", api.Code), http.StatusFound)
}

// withQuery appends key=value to target, keeping any existing query.
func withQuery(target, key, value string) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + key + "=" + url.QueryEscape(value)
}
