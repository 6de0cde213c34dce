// Package main runs the in-memory development homeserver used by keyward
// during local runs. It implements only what the key engine calls.
//
// HTTP API
//
//	GET  /_matrix/client/v3/account/whoami
//	    Return {user_id, device_id} for the bearer token.
//
//	POST /_matrix/client/v3/keys/upload
//	    Store device_keys and/or one_time_keys for the token's device and
//	    return one_time_key_counts. An empty body only reports counts.
//
//	GET  /_matrix/client/v3/rooms/{roomID}/state/{eventType}/{stateKey}
//	    Return the state event content, or 404 M_NOT_FOUND.
//
//	PUT  /_matrix/client/v3/rooms/{roomID}/state/{eventType}/{stateKey}
//	    Set state event content.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Errors are Matrix-style JSON: {"errcode": ..., "error": ...}.
//   - Every request is access-logged with method, path, remote, status,
//     bytes and duration.
//   - The default listen address is :8008.
package main
