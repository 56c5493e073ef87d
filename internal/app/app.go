package app

import (
	"adaremote/internal/relay"
	sessionsvc "adaremote/internal/services/session"
)

// Conn is one live signaling connection and the session service using it.
type Conn struct {
	Relay    *relay.Client
	Sessions *sessionsvc.Service
}

// Close hangs up the signaling connection.
func (c *Conn) Close() error { return c.Relay.Close() }
