// Package relay provides the client side of the signaling relay: a
// websocket Client implementing domain.SignalingClient, and a small HTTP
// client for the relay's health and status routes.
//
// Supported operations include:
//   - Dialing the relay with exponential backoff.
//   - Registering and joining sessions (Request).
//   - Sending offers, answers and ICE candidates to the matched peer.
//   - Receiving forwarded messages and disconnect notices (Pushes).
//
// Error replies from the relay come back as *RejectedError, which unwraps
// to the matching domain error (for example domain.ErrSessionNotFound).
// Transport failures wrap domain.ErrNetwork.
//
// The server side lives in the server subpackage.
package relay
