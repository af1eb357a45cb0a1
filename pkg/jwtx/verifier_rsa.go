package jwtx

import (
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// RSAVerifier validates JWTs signed with RS256/RS384/RS512 against a KeySet.
type RSAVerifier struct {
	keys    *KeySet
	issuer  string
	methods []string
}

// NewVerifierRSA creates a verifier accepting the given algorithms
// (RS512 when none are listed) and, if set, a fixed issuer.
func NewVerifierRSA(keys *KeySet, issuer string, algs ...string) *RSAVerifier {
	if len(algs) == 0 {
		algs = []string{jwt.SigningMethodRS512.Alg()}
	}
	return &RSAVerifier{keys: keys, issuer: issuer, methods: algs}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *RSAVerifier) Verify(tokenStr string) (Claims, error) {
	// Time-based claims are checked below by ValidateExpiry.
	parser := jwt.NewParser(
		jwt.WithValidMethods(v.methods),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, v.lookup)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}
	if claims.ID == "" || claims.Subject == "" {
		return Claims{}, ErrInvalidClaim
	}

	return claims, nil
}

// lookup picks the key by kid. Tokens without a kid are accepted only when
// the set holds exactly one key.
func (v *RSAVerifier) lookup(t *jwt.Token) (any, error) {
	var pub any
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		only, ok := v.keys.Single()
		if !ok {
			return nil, ErrUnknownKID
		}
		pub = only
	} else {
		k, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
		}
		pub = k
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, ErrAlgMismatch
	}
	return rsaPub, nil
}
