package federation

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StateVersion is bumped whenever HandshakeState changes shape. Cookies
// sealed under another version are rejected.
const StateVersion = 1

// HandshakeTTL bounds the whole redirect round trip.
const HandshakeTTL = 180 * time.Second

// HandshakeState is what the callback needs to finish a login that this
// service started.
type HandshakeState struct {
	Version      int    `json:"v"`
	Provider     string `json:"provider"`
	State        string `json:"state"`
	CodeVerifier string `json:"cv"`
	CallbackURL  string `json:"cb"`
}

type stateClaims struct {
	HandshakeState
	jwt.RegisteredClaims
}

// Sealer signs handshake state into a compact HS256 JWT.
type Sealer struct {
	secret []byte
	ttl    time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func NewSealer(secret []byte) (*Sealer, error) {
	if len(secret) < 32 {
		return nil, errors.New("federation: cookie secret must be at least 32 bytes")
	}
	return &Sealer{secret: secret, ttl: HandshakeTTL}, nil
}

func (s *Sealer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Seal stamps st with the current version and signs it.
func (s *Sealer) Seal(st HandshakeState) (string, error) {
	now := s.now()
	st.Version = StateVersion
	claims := stateClaims{
		HandshakeState: st,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	out, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("seal handshake state: %w", err)
	}
	return out, nil
}

// Open verifies and decodes a sealed state. Every failure, be it a bad
// signature, expiry or version skew, is ErrCookieDeserializationFailed.
func (s *Sealer) Open(sealed string) (HandshakeState, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims stateClaims
	_, err := parser.ParseWithClaims(sealed, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return HandshakeState{}, fmt.Errorf("%w: %v", ErrCookieDeserializationFailed, err)
	}
	if claims.Version != StateVersion {
		return HandshakeState{}, fmt.Errorf("%w: version %d", ErrCookieDeserializationFailed, claims.Version)
	}
	return claims.HandshakeState, nil
}
