// Package crypto exposes the minimal primitives used by keyward.
//
// Contents
//
//   - X25519 key generation (GenerateX25519, X25519Public)
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - Argon2id-derived chacha20poly1305 sealing for pickles (Seal, Open)
//   - Canonical JSON for signed payloads (CanonicalJSON)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//   - Unpadded base64 helpers matching the wire format (B64, DecodeB64)
package crypto
