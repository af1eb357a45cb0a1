package authsdk

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
)

// GetJWKS retrieves the JSON Web Key Set for token verification.
func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	if err != nil {
		return nil, err
	}

	var jwks JWKSResponse
	if err := decodeJSON(resp, &jwks, http.StatusOK); err != nil {
		return nil, err
	}

	return &jwks, nil
}

// KeySet fetches the JWKS into a KeySet, ready for jwtx.NewVerifierRSA.
// Sibling services use it to verify access tokens locally.
func (c *SDKClient) KeySet(ctx context.Context) (*jwtx.KeySet, error) {
	jwks, err := c.GetJWKS(ctx)
	if err != nil {
		return nil, err
	}
	keys := jwtx.NewKeySet()
	if err := keys.ResetFromJWKS(jwtx.JWKS(*jwks)); err != nil {
		return nil, err
	}
	return keys, nil
}
