package account

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"keyward/internal/codec"
	"keyward/internal/crypto"
	"keyward/internal/domain"
	"keyward/internal/util/memzero"
)

// pickleVersion is the current layout of the sealed account.
const pickleVersion = 1

// ErrBadPickle is returned when a pickle cannot be opened or decoded.
var ErrBadPickle = errors.New("account: wrong pickle key or corrupted pickle")

type accountRecord struct {
	IdentityPriv [32]byte     `cbor:"1,keyasint"`
	SigningSeed  []byte       `cbor:"2,keyasint"`
	NextKeyID    uint32       `cbor:"3,keyasint"`
	Unpublished  []oneTimeKey `cbor:"4,keyasint"`
	Published    []oneTimeKey `cbor:"5,keyasint"`
}

type sealedRecord struct {
	V      int    `cbor:"v"`
	Salt   []byte `cbor:"salt"`
	Nonce  []byte `cbor:"nonce"`
	Cipher []byte `cbor:"cipher"`
}

// Pickle serialises the account and seals it under key.
func (a *Account) Pickle(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.New("account: empty pickle key")
	}
	raw, err := codec.Marshal(accountRecord{
		IdentityPriv: a.identityPriv,
		SigningSeed:  a.signing.Seed(),
		NextKeyID:    a.nextKeyID,
		Unpublished:  a.unpublished,
		Published:    a.published,
	})
	if err != nil {
		return nil, fmt.Errorf("account: encode pickle: %w", err)
	}
	defer memzero.Zero(raw)

	salt, nonce, ct, err := crypto.Seal(key, raw)
	if err != nil {
		return nil, fmt.Errorf("account: seal pickle: %w", err)
	}
	return codec.Marshal(sealedRecord{V: pickleVersion, Salt: salt, Nonce: nonce, Cipher: ct})
}

// Unpickle restores an account sealed by Pickle.
func Unpickle(blob, key []byte) (*Account, error) {
	var sealed sealedRecord
	if err := codec.Unmarshal(blob, &sealed); err != nil {
		return nil, ErrBadPickle
	}
	if sealed.V > pickleVersion {
		return nil, fmt.Errorf("account: unsupported pickle version %d", sealed.V)
	}
	raw, err := crypto.Open(key, sealed.Salt, sealed.Nonce, sealed.Cipher)
	if err != nil {
		return nil, ErrBadPickle
	}
	defer memzero.Zero(raw)

	var rec accountRecord
	if err := codec.Unmarshal(raw, &rec); err != nil {
		return nil, ErrBadPickle
	}
	if len(rec.SigningSeed) != ed25519.SeedSize {
		return nil, ErrBadPickle
	}
	pub, err := crypto.X25519Public(rec.IdentityPriv)
	if err != nil {
		return nil, ErrBadPickle
	}
	return &Account{
		identityPriv: rec.IdentityPriv,
		identityPub:  pub,
		signing:      ed25519.NewKeyFromSeed(rec.SigningSeed),
		nextKeyID:    rec.NextKeyID,
		unpublished:  rec.Unpublished,
		published:    rec.Published,
	}, nil
}

// Factory adapts New and Unpickle to domain.AccountFactory.
type Factory struct{}

// NewAccount creates a fresh account.
func (Factory) NewAccount() (domain.Account, error) {
	a, err := New()
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Unpickle restores an account from its pickle.
func (Factory) Unpickle(blob, key []byte) (domain.Account, error) {
	a, err := Unpickle(blob, key)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Compile-time assertions.
var (
	_ domain.Account        = (*Account)(nil)
	_ domain.AccountFactory = Factory{}
)
