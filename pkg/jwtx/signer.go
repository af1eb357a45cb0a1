package jwtx

import (
	"crypto/rsa"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
	Validate() error
}

// NewSignerRSA creates a signer for one of the RS256/RS384/RS512 methods.
// A nil method defaults to RS512.
func NewSignerRSA(kid string, key *rsa.PrivateKey, method *jwt.SigningMethodRSA) Signer {
	if method == nil {
		method = jwt.SigningMethodRS512
	}
	return &RSASigner{kid: kid, key: key, method: method}
}

// NewSignerRSAFromPEM loads the private key from PEM text (see
// ParseRSAPrivateKey) and returns an RS512 signer. When kid is empty it is
// derived from the public key.
func NewSignerRSAFromPEM(kid, pemText string) (Signer, error) {
	key, err := ParseRSAPrivateKey(pemText)
	if err != nil {
		return nil, err
	}
	if kid == "" {
		kid = KeyID(&key.PublicKey)
	}
	return NewSignerRSA(kid, key, jwt.SigningMethodRS512), nil
}
