// Package main runs the adaremote signaling relay.
//
// The relay matches a host and a client by session id (or by the 9-digit
// code shown to users) and forwards their offer, answer and ICE candidate
// messages. It never sees plaintext: the key exchange material it forwards
// is public and everything after it is sealed.
//
// Routes
//
//	GET /, /ws    websocket upgrade; JSON messages tagged by "type"
//	GET /health   "OK"
//	GET /status   {"sessions": N, "connections": M}
//	GET /metrics  Prometheus exposition
//
// Flags
//
//	-b, --bind     listen address (default 0.0.0.0:8080)
//	-v, --verbose  debug logging
//
// All state is held in memory and lost on exit.
package main
