// Package session establishes secure sessions through the signaling relay.
//
// The host registers a session and waits; the client joins by id or by
// display code. The two then swap ephemeral X25519 public keys inside
// offer/answer messages, derive a channel bound to the session id, and the
// client proves knowledge of the session password over that channel. The
// relay only ever sees public keys and sealed frames.
package session
