// Package signaling defines the messages exchanged between peers and the
// relay while a session is being brokered.
//
// Every message is one JSON object discriminated by a snake_case "type"
// field. Offer, Answer and IceCandidate payloads are opaque to the relay and
// forwarded byte for byte.
package signaling
