// Package homeserver is an in-memory stand-in for the parts of a Matrix
// homeserver the key engine talks to: whoami, keys/upload, and room state.
//
// It keeps one-time keys per device so counts reported by keys/upload
// reflect what was actually uploaded and claimed. It is used by transport
// tests through httptest and by cmd/homeserver for local runs. Nothing is
// persisted.
package homeserver
