package interfaces

import domaintypes "adaremote/internal/domain/types"

// SessionStore persists the CLI's current session configuration.
type SessionStore interface {
	SaveCurrentSession(cfg domaintypes.SessionConfig) error
	LoadCurrentSession() (domaintypes.SessionConfig, bool, error)
	ClearCurrentSession() error
}
