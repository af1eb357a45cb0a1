package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

// RevocationChecker reports whether a token id has been revoked. An error
// means the answer is unknown (cache down) and the request cannot proceed.
type RevocationChecker interface {
	IsRevokedID(ctx context.Context, jti string) (bool, error)
}

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header, or "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if len(authz) < 7 || !strings.EqualFold(authz[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[7:])
}

// Authenticate resolves the caller for every request. A missing or invalid
// token leaves the request anonymous; RequireAuthentication decides later
// whether that matters. A valid but revoked token is rejected immediately.
func Authenticate(v jwtx.Verifier, revoked RevocationChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			claims, err := v.Verify(raw)
			if err != nil {
				log.Debug("bearer token ignored", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			// Confirmation and reset tokens only work inside their own flow.
			if claims.Restricted() {
				log.Debug("restricted token presented as bearer", "jti", claims.ID)
				next.ServeHTTP(w, r)
				return
			}

			isRevoked, err := revoked.IsRevokedID(ctx, claims.ID)
			if err != nil {
				log.Error("revocation check failed", "err", err)
				WriteError(w, http.StatusServiceUnavailable, "temporarily_unavailable",
					"Session store unavailable, retry later.")
				return
			}
			if isRevoked {
				writeBearerError(w, "token_revoked", "The access token has been revoked.")
				return
			}

			p := Principal{
				Subject: claims.Subject,
				TokenID: claims.ID,
				Token:   raw,
			}
			if claims.ExpiresAt != nil {
				p.ExpiresAt = claims.ExpiresAt.Time
			}

			ctx = slogx.With(WithPrincipal(ctx, p), "sub", p.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, code, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, code, desc)
}
