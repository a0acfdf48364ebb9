package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a hex BLAKE2b-256 digest of v's JSON encoding, keyed
// with a hash of secret. Equal profiles give equal fingerprints, so repeated
// submissions can be found in the audit log without storing raw figures.
func Fingerprint(secret string, v any) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("fingerprint secret is empty")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	key := blake2b.Sum256([]byte(secret))
	h, err := blake2b.New256(key[:])
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
