// Package account implements the device's cryptographic account.
//
// An Account holds a Curve25519 identity key, an Ed25519 signing key and a
// pool of Curve25519 one-time keys. One-time key ids come from a 32-bit
// counter rendered as unpadded base64 of its big-endian bytes; the counter
// only moves forward and is part of the pickle, so a reloaded account never
// reissues an id.
//
// Pickles are CBOR-encoded and sealed with chacha20poly1305 under a key
// derived from the caller's pickle key. Each Pickle call uses a fresh salt
// and nonce.
package account
