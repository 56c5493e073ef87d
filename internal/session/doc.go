// Package session generates, parses and renders session identifiers.
//
// A session identifier is a random 128-bit value (a version 4 UUID). Its
// canonical string form is what travels on the wire and what the relay keys
// its registry by. The 9-digit code returned by Display is a lossy
// projection for people to read out and type in; ParseKey lets the relay
// accept either form and tells the two apart.
package session
