package interfaces

import domaintypes "keyward/internal/domain/types"

// Account is the opaque, mutable cryptographic identity of a device.
// Implementations are not safe for concurrent use; callers serialise access.
type Account interface {
	IdentityKeys() domaintypes.IdentityKeys
	// Sign returns the base64 Ed25519 signature over message.
	Sign(message []byte) string
	// GenerateOneTimeKeys creates n new unpublished keys. Key ids come from
	// a counter that never goes backwards.
	GenerateOneTimeKeys(n int) ([]domaintypes.OneTimeKey, error)
	// MarkKeysAsPublished moves every unpublished key to the published set.
	MarkKeysAsPublished()
	// Pickle serialises and seals the account under key.
	Pickle(key []byte) ([]byte, error)
}

// AccountFactory creates accounts fresh or from a pickle.
type AccountFactory interface {
	NewAccount() (Account, error)
	Unpickle(blob, key []byte) (Account, error)
}
