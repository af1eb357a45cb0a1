package federation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/federation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newSealer(t *testing.T) *federation.Sealer {
	t.Helper()
	s, err := federation.NewSealer(testSecret)
	require.NoError(t, err)
	return s
}

func sampleState() federation.HandshakeState {
	return federation.HandshakeState{
		Provider:     federation.GitHub,
		State:        "state-123",
		CodeVerifier: "verifier-abc",
		CallbackURL:  "http://localhost:8080/login/oauth2/code/github",
	}
}

func TestSealOpen(t *testing.T) {
	s := newSealer(t)

	sealed, err := s.Seal(sampleState())
	require.NoError(t, err)

	got, err := s.Open(sealed)
	require.NoError(t, err)
	want := sampleState()
	want.Version = federation.StateVersion
	require.Equal(t, want, got)
}

func TestNewSealerRejectsShortSecret(t *testing.T) {
	_, err := federation.NewSealer([]byte("short"))
	require.Error(t, err)
}

func TestOpenRejects(t *testing.T) {
	s := newSealer(t)
	sealed, err := s.Seal(sampleState())
	require.NoError(t, err)

	other, err := federation.NewSealer([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	foreign, err := other.Seal(sampleState())
	require.NoError(t, err)

	expiredSealer := newSealer(t)
	expiredSealer.Now = func() time.Time { return time.Now().Add(-federation.HandshakeTTL - time.Minute) }
	expired, err := expiredSealer.Seal(sampleState())
	require.NoError(t, err)

	// Correctly signed but from a different state layout.
	skewed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"v":        federation.StateVersion + 1,
		"provider": "github",
		"state":    "s",
		"exp":      time.Now().Add(time.Minute).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	parts := strings.Split(sealed, ".")
	tampered := parts[0] + "." + parts[1] + "A." + parts[2]

	for name, value := range map[string]string{
		"foreign":  foreign,
		"expired":  expired,
		"version":  skewed,
		"tampered": tampered,
		"garbage":  "%%%",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Open(value)
			require.ErrorIs(t, err, federation.ErrCookieDeserializationFailed)
		})
	}
}
