// Package store provides persistence for the device's key slots.
//
// Three implementations of domain.KeyStore are provided:
//   - FileStore: one file per concern under a directory, written via temp
//     file + rename; the pickle key is sealed under a passphrase (scrypt +
//     chacha20poly1305).
//   - LevelStore: a leveldb database with one key per slot.
//   - MemoryStore: process memory only, for tests and throwaway sessions.
//
// All methods are concurrency-safe via internal locking. Loading a slot that
// was never written returns its zero value and a nil error; saving an empty
// value clears the slot.
package store
