// Package matrix provides an HTTP implementation of domain.Homeserver on top
// of the Matrix client-server API.
//
// Supported operations:
//   - Identifying the session's user and device (account/whoami).
//   - Publishing device keys and signed one-time keys (keys/upload).
//   - Reading the server's one-time key counts (keys/upload with an empty body).
//   - Fetching a single room state event.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx responses are returned as *Error carrying the Matrix
// errcode and HTTP status. Request URLs are built by concatenation so path
// segments that already contain escaped characters are not encoded twice.
package matrix
