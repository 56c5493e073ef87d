// Package server implements the signaling relay: a websocket endpoint that
// registers hosts, matches clients to them by session id or display code,
// and forwards negotiation messages between the two without inspecting
// them.
//
// # Concurrency
//
// Each accepted connection runs one reader and one writer goroutine. The
// Registry is the only state shared between connections; its lock is held
// for the map update alone and never across a network write. Sends to a
// peer are non-blocking enqueues onto that peer's buffered channel.
//
// # Cleanup
//
// A session ends when its host sends disconnect, when the host's connection
// is lost, or when the periodic sweep finds the host gone. The remaining
// peer is told with a disconnect message.
package server
