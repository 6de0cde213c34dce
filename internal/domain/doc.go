// Package domain holds the types and contracts shared by the key engine,
// its stores and its transports: device identity, key payloads, one-time
// key counts, and the KeyStore, Account and Homeserver interfaces.
// Implementations live elsewhere.
package domain
