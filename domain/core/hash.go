package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Fingerprint hashes the JSON encoding of v. Callers must pass values whose
// encoding is order-stable (slices, structs), not maps with free ordering.
func Fingerprint(v any) (Hash, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return NewHash(data), nil
}
