// Package sessiontest provides session identifiers for tests.
package sessiontest

import (
	"adaremote/internal/domain"
	"adaremote/internal/session"
)

// NewID returns a fresh identifier and panics if the random source fails.
func NewID() domain.SessionID {
	id, err := session.Generate()
	if err != nil {
		panic(err)
	}
	return id
}
