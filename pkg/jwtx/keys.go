package jwtx

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrKeyMaterialInvalid is returned when configured key text cannot be
// decoded into an RSA key. Services treat it as fatal at startup.
var ErrKeyMaterialInvalid = errors.New("jwtx: key material invalid")

// SanitizePEM strips the -----BEGIN/END ...----- armour and all whitespace,
// leaving the base64 body. Keys pasted into environment variables frequently
// lose their newlines (or carry literal "\n"), so we never rely on pem.Decode.
func SanitizePEM(text string) string {
	out := strings.ReplaceAll(text, `\n`, "\n")
	for {
		start := strings.Index(out, "-----")
		if start < 0 {
			break
		}
		end := strings.Index(out[start+5:], "-----")
		if end < 0 {
			break
		}
		out = out[:start] + out[start+5+end+5:]
	}
	return strings.Join(strings.Fields(out), "")
}

func decodeKeyBody(text string) ([]byte, error) {
	body := SanitizePEM(text)
	if body == "" {
		return nil, fmt.Errorf("%w: empty key", ErrKeyMaterialInvalid)
	}
	der, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialInvalid, err)
	}
	return der, nil
}

// ParseRSAPrivateKey decodes PKCS#8 or PKCS#1 private key text.
func ParseRSAPrivateKey(text string) (*rsa.PrivateKey, error) {
	der, err := decodeKeyBody(text)
	if err != nil {
		return nil, err
	}

	if k, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rk, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA private key", ErrKeyMaterialInvalid)
		}
		return rk, nil
	}

	rk, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialInvalid, err)
	}
	return rk, nil
}

// ParseRSAPublicKey decodes PKIX or PKCS#1 public key text.
func ParseRSAPublicKey(text string) (*rsa.PublicKey, error) {
	der, err := decodeKeyBody(text)
	if err != nil {
		return nil, err
	}

	if k, err := x509.ParsePKIXPublicKey(der); err == nil {
		rk, ok := k.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA public key", ErrKeyMaterialInvalid)
		}
		return rk, nil
	}

	rk, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialInvalid, err)
	}
	return rk, nil
}

// KeyID derives a stable kid from the SHA-256 of the PKIX encoding.
func KeyID(pub *rsa.PublicKey) string {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(der)
	return base64.RawURLEncoding.EncodeToString(sum[:12])
}

// SamePublicKey reports whether a and b are the same RSA key.
func SamePublicKey(a, b *rsa.PublicKey) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Equal(b)
}
