package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const fingerprintBytes = 10

// Fingerprint returns a short, human-comparable digest of a public key:
// the first 10 bytes of its SHA-256, hex encoded in groups of four.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	digits := hex.EncodeToString(sum[:fingerprintBytes])

	var b strings.Builder
	for i := 0; i < len(digits); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i:min(i+4, len(digits))])
	}
	return b.String()
}
