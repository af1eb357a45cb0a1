package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatehouse/pkg/cryptox"
	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoadSigningKeysEphemeralInDev(t *testing.T) {
	keys, err := LoadSigningKeys(Config{Env: "dev", Issuer: "gatehouse-auth"}, discard)
	require.NoError(t, err)
	require.True(t, keys.KeySet.IsReady())

	token, err := keys.Signer.Sign(jwtx.NewClaims("ada@example.com", "gatehouse-auth", time.Minute, time.Now(), nil))
	require.NoError(t, err)
	claims, err := keys.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Subject)
}

func TestLoadSigningKeysRequiresPairOutsideDev(t *testing.T) {
	_, err := LoadSigningKeys(Config{Env: "prod"}, discard)
	require.ErrorIs(t, err, jwtx.ErrKeyMaterialInvalid)
}

func TestLoadSigningKeysMismatch(t *testing.T) {
	priv, _, err := cryptox.GenerateRSAKeyPair(2048)
	require.NoError(t, err)
	_, otherPub, err := cryptox.GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	_, err = LoadSigningKeys(Config{Env: "prod", PrivateKey: priv, PublicKey: otherPub}, discard)
	require.ErrorIs(t, err, jwtx.ErrKeyMaterialInvalid)
}

func TestLoadSigningKeysFromPEM(t *testing.T) {
	priv, pub, err := cryptox.GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	keys, err := LoadSigningKeys(Config{Env: "prod", PrivateKey: priv, PublicKey: pub, KeyID: "k1"}, discard)
	require.NoError(t, err)
	require.Equal(t, "k1", keys.Signer.KID())
	require.Equal(t, "RS512", keys.Signer.Alg())
}
