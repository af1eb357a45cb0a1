package httpx

import (
	"crypto/subtle"
	"net/http"
)

// PrivateSecretHeader carries the shared secret on service-to-service calls.
const PrivateSecretHeader = "PrivateSecret"

// RequireAuthentication rejects requests that reached it without a Principal.
func RequireAuthentication() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				writeBearerError(w, "token_not_found", "A valid bearer token is required.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePrivateSecret guards internal routes with the shared secret. An
// empty configured secret rejects everything.
func RequirePrivateSecret(secret string) Middleware {
	want := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(PrivateSecretHeader))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid private secret.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
