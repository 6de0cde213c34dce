package domain

import (
	interfaces "keyward/internal/domain/interfaces"
	types "keyward/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint       = types.Fingerprint
	DeviceIdentity    = types.DeviceIdentity
	AccountState      = types.AccountState
	IdentityKeys      = types.IdentityKeys
	Signatures        = types.Signatures
	DeviceKeys        = types.DeviceKeys
	OneTimeKeyCounts  = types.OneTimeKeyCounts
	OneTimeKey        = types.OneTimeKey
	SignedKey         = types.SignedKey
	SignedOneTimeKeys = types.SignedOneTimeKeys
	RoomCryptoConfig  = types.RoomCryptoConfig
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyStore         = interfaces.KeyStore
	Account          = interfaces.Account
	AccountFactory   = interfaces.AccountFactory
	Homeserver       = interfaces.Homeserver
	RoomStateFetcher = interfaces.RoomStateFetcher
	RoomTracker      = interfaces.RoomTracker
)

// Constants re-exported from the types subpackage.
const (
	AlgorithmSignedCurve25519 = types.AlgorithmSignedCurve25519
	AlgorithmCurve25519       = types.AlgorithmCurve25519
	AlgorithmEd25519          = types.AlgorithmEd25519
	AlgorithmOlm              = types.AlgorithmOlm
	AlgorithmMegolm           = types.AlgorithmMegolm
	EventTypeRoomEncryption   = types.EventTypeRoomEncryption
)

// KeyID returns "<algorithm>:<id>".
func KeyID(algorithm, id string) string { return types.KeyID(algorithm, id) }
