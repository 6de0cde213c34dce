package types

// DeviceIdentity names this device on the homeserver.
type DeviceIdentity struct {
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
}

// AccountState is the persisted form of the cryptographic account.
type AccountState struct {
	PickledAccount []byte
	PickleKey      []byte
}

// Usable reports whether both halves are present. An account with either
// half missing must be regenerated.
func (s AccountState) Usable() bool {
	return len(s.PickledAccount) > 0 && len(s.PickleKey) > 0
}

// IdentityKeys are the long-term public keys of an account, base64 encoded.
type IdentityKeys struct {
	Curve25519 string `json:"curve25519"`
	Ed25519    string `json:"ed25519"`
}
