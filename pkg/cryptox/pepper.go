package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Argon2id parameters.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// LoadPepper reads the pepper from path, creating the file with a fresh
// random pepper on first start. Changing the pepper invalidates every stored
// password hash, so the file must be backed up with the database.
func LoadPepper(path string) error {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		value := strings.TrimSpace(string(data))
		if value == "" {
			return errors.New("cryptox: pepper file is empty")
		}
		SetPepper(value)
		return nil

	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return err
		}
		buf := make([]byte, keyLength)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		value := base64.RawURLEncoding.EncodeToString(buf)
		if err := os.WriteFile(path, []byte(value), 0o600); err != nil {
			return err
		}
		SetPepper(value)
		return nil

	default:
		return err
	}
}

// SetPepper replaces the pepper in use. Tests use it directly.
func SetPepper(value string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = value
}

// Pepper returns the current pepper ("" until LoadPepper/SetPepper ran).
func Pepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
