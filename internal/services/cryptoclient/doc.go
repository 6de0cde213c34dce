// Package cryptoclient bootstraps a device's end-to-end encryption identity
// and keeps its published one-time keys topped up.
//
// A Client must be prepared before use. Prepare resolves the device id
// (from the store, or from the homeserver on first run), loads or creates
// the cryptographic account, publishes keys as needed, hands the joined
// rooms to the room tracker and finally opens the readiness gate. Until
// then UpdateCounts, IsRoomEncrypted and the identity accessors fail with
// ErrNotInitialized.
//
// # Bootstrap
//
// Prepare takes the full path when any of these holds: the device id was
// just obtained from the homeserver, the stored account pickle is empty, or
// the stored pickle key is empty. The full path creates a new account,
// uploads its device keys, uploads a complete batch of OneTimeKeyTarget
// one-time keys and persists the pickle and pickle key. Otherwise the
// stored account is unpickled and only topped up against the server's
// reported counts.
//
// # One-time keys
//
// Only the signed_curve25519 count drives replenishment. New keys are
// persisted (by re-pickling the account) strictly after the upload
// succeeds, so a failed upload never records key-counter state for keys
// the server has not seen.
//
// # Concurrency
//
// The account is owned by the Client and only touched while holding its
// lock, which is held across generate, upload and persist. Concurrent
// UpdateCounts calls therefore run one after another and never hand out
// the same key id twice.
package cryptoclient
