package types

// Algorithm tags used in key maps and key counts.
const (
	// AlgorithmSignedCurve25519 tags signed one-time keys.
	AlgorithmSignedCurve25519 = "signed_curve25519"
	// AlgorithmCurve25519 tags unsigned one-time keys and the identity key.
	AlgorithmCurve25519 = "curve25519"
	// AlgorithmEd25519 tags the signing key.
	AlgorithmEd25519 = "ed25519"

	// AlgorithmOlm is the to-device encryption algorithm advertised with device keys.
	AlgorithmOlm = "m.olm.v1.curve25519-aes-sha2"
	// AlgorithmMegolm is the room encryption algorithm advertised with device keys.
	AlgorithmMegolm = "m.megolm.v1.aes-sha2"
)

// EventTypeRoomEncryption is the state event whose presence marks a room as encrypted.
const EventTypeRoomEncryption = "m.room.encryption"

// KeyID returns "<algorithm>:<id>", the form used for map keys in uploads
// and in signature maps.
func KeyID(algorithm, id string) string { return algorithm + ":" + id }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
