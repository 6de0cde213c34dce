package types

// OneTimeKeyCounts is the server-reported inventory of unclaimed one-time
// keys, keyed by algorithm tag. It is untrusted and may be empty.
type OneTimeKeyCounts map[string]int

// Signed returns the signed_curve25519 count, zero when absent.
func (c OneTimeKeyCounts) Signed() int {
	return c[AlgorithmSignedCurve25519]
}

// OneTimeKey is a freshly generated public one-time key.
type OneTimeKey struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// SignedKey is a one-time key with its signatures, as uploaded.
type SignedKey struct {
	Key        string     `json:"key"`
	Signatures Signatures `json:"signatures,omitempty"`
}

// SignedOneTimeKeys maps "signed_curve25519:<key id>" to the signed key.
type SignedOneTimeKeys map[string]SignedKey
