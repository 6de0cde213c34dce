package account

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"

	"keyward/internal/crypto"
	"keyward/internal/domain"
	"keyward/internal/util/memzero"
)

// MaxOneTimeKeys bounds the private one-time keys kept locally. When the
// pool grows past it the oldest published keys are dropped first.
const MaxOneTimeKeys = 100

type oneTimeKey struct {
	ID   uint32   `cbor:"1,keyasint"`
	Priv [32]byte `cbor:"2,keyasint"`
	Pub  [32]byte `cbor:"3,keyasint"`
}

func (k oneTimeKey) public() domain.OneTimeKey {
	return domain.OneTimeKey{ID: encodeKeyID(k.ID), Key: crypto.B64(k.Pub[:])}
}

// Account is a device's long-term keys plus its one-time key pool.
// It is not safe for concurrent use.
type Account struct {
	identityPriv [32]byte
	identityPub  [32]byte
	signing      ed25519.PrivateKey

	nextKeyID   uint32
	unpublished []oneTimeKey
	published   []oneTimeKey
}

// New creates an account with fresh identity and signing keys.
func New() (*Account, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return nil, fmt.Errorf("account: identity key: %w", err)
	}
	signing, _, err := crypto.GenerateEd25519()
	if err != nil {
		return nil, fmt.Errorf("account: signing key: %w", err)
	}
	return &Account{identityPriv: priv, identityPub: pub, signing: signing}, nil
}

// IdentityKeys returns the base64 Curve25519 and Ed25519 public keys.
func (a *Account) IdentityKeys() domain.IdentityKeys {
	return domain.IdentityKeys{
		Curve25519: crypto.B64(a.identityPub[:]),
		Ed25519:    crypto.B64(a.signing.Public().(ed25519.PublicKey)),
	}
}

// Sign returns the base64 Ed25519 signature over message.
func (a *Account) Sign(message []byte) string {
	return crypto.B64(crypto.SignEd25519(a.signing, message))
}

// GenerateOneTimeKeys creates n unpublished keys and returns their public halves.
func (a *Account) GenerateOneTimeKeys(n int) ([]domain.OneTimeKey, error) {
	if n < 0 {
		return nil, fmt.Errorf("account: negative key count %d", n)
	}
	if uint64(a.nextKeyID)+uint64(n) > uint64(^uint32(0)) {
		return nil, errors.New("account: one-time key ids exhausted")
	}
	out := make([]domain.OneTimeKey, 0, n)
	for i := 0; i < n; i++ {
		priv, pub, err := crypto.GenerateX25519()
		if err != nil {
			return nil, fmt.Errorf("account: one-time key: %w", err)
		}
		a.nextKeyID++
		k := oneTimeKey{ID: a.nextKeyID, Priv: priv, Pub: pub}
		a.unpublished = append(a.unpublished, k)
		out = append(out, k.public())
	}
	a.trim()
	return out, nil
}

// MarkKeysAsPublished moves every unpublished key to the published set.
func (a *Account) MarkKeysAsPublished() {
	a.published = append(a.published, a.unpublished...)
	a.unpublished = nil
	a.trim()
}

func (a *Account) trim() {
	for len(a.published)+len(a.unpublished) > MaxOneTimeKeys {
		if len(a.published) > 0 {
			memzero.Key32(&a.published[0].Priv)
			a.published = a.published[1:]
			continue
		}
		memzero.Key32(&a.unpublished[0].Priv)
		a.unpublished = a.unpublished[1:]
	}
}

func encodeKeyID(id uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], id)
	return crypto.B64(b[:])
}
