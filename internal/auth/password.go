package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters sized per the 2017 recommendation for interactive
// logins. Changing them invalidates every stored digest.
const (
	scryptN = 32768
	scryptR = 8
	scryptP = 1
	keyLen  = 32
	saltLen = 16
)

// PasswordHasher derives salted scrypt digests. Both the digest and the
// salt are hex-encoded for storage.
type PasswordHasher struct{}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// Hash derives a digest of password under a fresh random salt.
func (h *PasswordHasher) Hash(password string) (digest, salt string, err error) {
	raw := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	salt = hex.EncodeToString(raw)

	digest, err = h.HashWith(password, salt)
	if err != nil {
		return "", "", err
	}
	return digest, salt, nil
}

// HashWith recomputes the digest for password under a stored salt.
func (h *PasswordHasher) HashWith(password, salt string) (string, error) {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), rawSalt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Compare recomputes the digest for password under salt and checks it
// against the stored digest in constant time.
func (h *PasswordHasher) Compare(password, salt, storedDigest string) (bool, error) {
	digest, err := h.HashWith(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) == 1, nil
}
