// Package config holds the relay's runtime defaults and the CLI's YAML
// configuration file.
package config

import "time"

// DefaultBind is the relay's default listen address.
const DefaultBind = "0.0.0.0:8080"

// Relay tunes the signaling server. Only Bind is exposed on the command
// line; everything else keeps its default.
type Relay struct {
	Bind string

	// PongWait is how long a connection may stay silent before it is
	// considered dead. PingPeriod must be shorter.
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration

	ReadLimit  int64
	SendBuffer int

	SweepInterval time.Duration

	JoinsPerMinute int
	JoinBurst      int
}

// DefaultRelay returns the relay defaults.
func DefaultRelay() Relay {
	return Relay{
		Bind:           DefaultBind,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		WriteWait:      10 * time.Second,
		ReadLimit:      64 * 1024,
		SendBuffer:     64,
		SweepInterval:  30 * time.Second,
		JoinsPerMinute: 30,
		JoinBurst:      10,
	}
}
