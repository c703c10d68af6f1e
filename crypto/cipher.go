// Package crypto holds the client side of the zero-knowledge boundary: the
// symmetric cipher, the in-memory key holder and the vault record codec.
// Nothing in this package persists or transmits key material.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
)

// ErrEmptyKey is returned when a caller supplies an empty vault key.
var ErrEmptyKey = errors.New("vault key must not be empty")

// ErrDecryptionFailed covers every decryption failure: wrong key, tampered or
// corrupted ciphertext, malformed encoding. Callers must treat them alike.
var ErrDecryptionFailed = errors.New("decryption failed: wrong key or corrupted data")

// deriveKey stretches the vault key into a 32-byte AES-256 key.
func deriveKey(key string, salt []byte) []byte {
	return argon2.IDKey([]byte(key), salt, 1, 64*1024, 4, 32)
}

// Encrypt encrypts plaintext under the given key with AES-256-GCM. The
// returned string is base64(salt | nonce | ciphertext), so decryption needs
// only the ciphertext and the key. A fresh salt and nonce are generated per
// call; encrypting the same plaintext twice yields different ciphertexts.
func Encrypt(plaintext, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(key, salt))
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+aesgcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aesgcm.Seal(out, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Any failure, including an authenticity check
// failure under the wrong key, is reported as ErrDecryptionFailed so callers
// never observe garbage plaintext.
func Decrypt(ciphertext, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(raw) < saltSize+nonceSize {
		return "", ErrDecryptionFailed
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]
	sealed := raw[saltSize+nonceSize:]

	block, err := aes.NewCipher(deriveKey(key, salt))
	if err != nil {
		return "", ErrDecryptionFailed
	}
	aesgcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
