// Package codec provides the CBOR encoding used for account pickles.
//
// Encoding follows Core Deterministic Encoding (RFC 8949 §4.2): the same
// logical value always produces the same bytes, so any change in a pickle
// reflects a change in account state or in the sealing nonce, never in
// map iteration order.
package codec
