package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/gatehouse/pkg/cryptox"
	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
)

const devRSABits = 2048

// SigningKeys is the configured RS512 key pair in the shapes the service needs.
type SigningKeys struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	KeySet   *jwtx.KeySet
}

// LoadSigningKeys builds the signer and verifier from AUTH_PRIVATE_KEY and
// AUTH_PUBLIC_KEY.
//
// In dev, when neither key is set, an ephemeral pair is generated and all
// tokens become invalid on restart. Anywhere else both keys are required.
// Keys that do not form a pair are rejected so the service never issues
// tokens it cannot verify.
func LoadSigningKeys(cfg Config, logger *slog.Logger) (*SigningKeys, error) {
	privPEM, pubPEM := cfg.PrivateKey, cfg.PublicKey

	switch {
	case privPEM == "" && pubPEM == "" && cfg.IsDev():
		var err error
		privPEM, pubPEM, err = cryptox.GenerateRSAKeyPair(devRSABits)
		if err != nil {
			return nil, fmt.Errorf("generate ephemeral keys: %w", err)
		}
		logger.Warn("using ephemeral signing keys, tokens will not survive a restart")
	case privPEM == "" || pubPEM == "":
		return nil, fmt.Errorf("%w: AUTH_PRIVATE_KEY and AUTH_PUBLIC_KEY must both be set", jwtx.ErrKeyMaterialInvalid)
	}

	signer, err := jwtx.NewSignerRSAFromPEM(cfg.KeyID, privPEM)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}
	pub, err := jwtx.ParseRSAPublicKey(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("load public key: %w", err)
	}

	rsaSigner, ok := signer.(*jwtx.RSASigner)
	if !ok || !jwtx.SamePublicKey(rsaSigner.Public(), pub) {
		return nil, fmt.Errorf("%w: public key does not match private key", jwtx.ErrKeyMaterialInvalid)
	}
	if err := signer.Validate(); err != nil {
		return nil, errors.Join(jwtx.ErrKeyMaterialInvalid, err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("register signing key: %w", err)
	}

	logger.Info("signing key loaded", "kid", signer.KID(), "alg", signer.Alg())
	return &SigningKeys{
		Signer:   signer,
		Verifier: jwtx.NewVerifierRSA(keys, cfg.Issuer),
		KeySet:   keys,
	}, nil
}
