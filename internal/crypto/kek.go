package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"keyward/internal/util/memzero"
)

const (
	KeyBytes   = 32
	SaltBytes  = 16
	NonceBytes = chacha20poly1305.NonceSize
)

// ErrOpen is returned when a sealed blob cannot be authenticated.
var ErrOpen = errors.New("crypto: wrong key or corrupted data")

// DeriveKEK derives a key-encryption key from secret material and salt using Argon2id.
func DeriveKEK(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 8*1024, 1, KeyBytes)
}

// Seal encrypts plaintext under a KEK derived from secret and a fresh salt.
// Every call draws a new salt and nonce, so identical plaintexts produce
// different outputs.
func Seal(secret, plaintext []byte) (salt, nonce, ciphertext []byte, err error) {
	if len(secret) == 0 {
		return nil, nil, nil, errors.New("crypto: empty sealing secret")
	}
	salt = make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, nil, err
	}
	kek := DeriveKEK(secret, salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, nil, nil, err
	}
	nonce = make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, err
	}
	return salt, nonce, aead.Seal(nil, nonce, plaintext, salt), nil
}

// Open reverses Seal.
func Open(secret, salt, nonce, ciphertext []byte) ([]byte, error) {
	if len(salt) != SaltBytes {
		return nil, errors.New("crypto: invalid salt size")
	}
	if len(nonce) != NonceBytes {
		return nil, errors.New("crypto: invalid nonce size")
	}
	kek := DeriveKEK(secret, salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, nonce, ciphertext, salt)
	if err != nil {
		return nil, ErrOpen
	}
	return pt, nil
}
