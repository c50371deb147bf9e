// Package auth issues and verifies the access tokens that carry a caller's
// owner id and role.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// KeySize is the PASETO v4 symmetric key size in bytes.
const KeySize = 32

// keyFileName is the key file inside the data directory.
const keyFileName = "auth.key"

// LoadOrGenerateKey returns the token key stored in <dataPath>/auth.key,
// creating the file with a fresh random key on first use.
// The file holds the key hex-encoded.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	//#nosec G304 -- key path is derived from the configured data path
	raw, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		return DecodeKey(string(raw))
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save auth key: %w", err)
	}
	return key, nil
}

// DecodeKey parses a hex-encoded token key.
func DecodeKey(keyHex string) ([]byte, error) {
	keyHex = strings.TrimSpace(keyHex)
	if len(keyHex) != KeySize*2 {
		return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", KeySize*2, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key format: not valid hex: %w", err)
	}
	return key, nil
}
