// Package memzero wipes secret key material once it is no longer needed.
package memzero

// Zero overwrites b with zeros.
func Zero(b []byte) {
	clear(b)
}

// Key32 overwrites a fixed-size private key.
func Key32(k *[32]byte) {
	if k == nil {
		return
	}
	clear(k[:])
}
