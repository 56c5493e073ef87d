// Package message defines the protocol messages peers exchange once a
// secure channel exists, and the Sealer that encrypts them into frames.
//
// Messages are encoded as "type"-tagged JSON and then sealed; the relay
// never sees them in the clear.
package message
