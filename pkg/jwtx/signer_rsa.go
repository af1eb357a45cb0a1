package jwtx

import (
	"crypto/rsa"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// RSASigner implements Signer with an RSA PKCS#1 v1.5 method.
type RSASigner struct {
	kid    string
	key    *rsa.PrivateKey
	method *jwt.SigningMethodRSA
}

func (s *RSASigner) Alg() string { return s.method.Alg() }
func (s *RSASigner) KID() string { return s.kid }

// Public returns the verification half of the key pair.
func (s *RSASigner) Public() *rsa.PublicKey { return &s.key.PublicKey }

// Sign turns claims into a compact signed JWT with the kid header set.
func (s *RSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// PublicJWK returns the JWK published in the JWKS.
func (s *RSASigner) PublicJWK() JWK {
	return NewRSAJWK(s.kid, "sig", s.Alg(), &s.key.PublicKey)
}

// Validate does a quick sanity check to make sure we actually have keys.
func (s *RSASigner) Validate() error {
	if s.key == nil {
		return errors.New("jwtx: nil RSA key")
	}
	if s.key.N.BitLen() < 2048 {
		return errors.New("jwtx: RSA key shorter than 2048 bits")
	}
	return s.key.Validate()
}
