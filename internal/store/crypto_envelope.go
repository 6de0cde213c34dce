package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"keyward/internal/util/memzero"
)

const (
	// The current supported version of the sealed pickle-key format stored on disk.
	keystoreFormatVersion = 2

	// envelopeLabel is bound into the AEAD so a sealed pickle key cannot be
	// swapped for some other blob sealed under the same passphrase.
	envelopeLabel = "keyward/pickle-key"
)

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// sealed pickle key has been modified.
	ErrWrongPassphrase = errors.New("store: wrong passphrase or corrupted pickle key")
)

// blob is the on‑disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	Nonce  []byte `json:"nonce"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

func (b blob) additionalData() []byte {
	return append([]byte(envelopeLabel), b.Salt...)
}

// encrypt derives a key from passphrase and seals raw into a JSON blob.
func encrypt(passphrase string, raw []byte, N, r, p int) ([]byte, error) {
	bl := blob{V: keystoreFormatVersion, N: N, R: r, P: p}
	bl.Salt = make([]byte, 16)
	if _, err := rand.Read(bl.Salt); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), bl.Salt, N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	bl.Nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(bl.Nonce); err != nil {
		return nil, err
	}
	bl.Cipher = aead.Seal(nil, bl.Nonce, raw, bl.additionalData())
	return json.Marshal(bl)
}

// decrypt opens the JSON blob using a key derived from passphrase.
func decrypt(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, ErrWrongPassphrase
	}
	if bl.V > keystoreFormatVersion {
		return nil, fmt.Errorf("store: unsupported keystore version %d", bl.V)
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	if len(bl.Nonce) != aead.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, bl.additionalData())
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

// Tunables for scrypt key derivation.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }
