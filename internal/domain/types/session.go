package types

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// SessionID is the 128-bit canonical identity of a remote session.
type SessionID uuid.UUID

// codeModulus is 10^9, the size of the human-facing code space.
var codeModulus = big.NewInt(1_000_000_000)

// String returns the canonical (lowercase, hyphenated) form.
func (id SessionID) String() string { return uuid.UUID(id).String() }

// Code returns the 9-digit display projection of the identifier.
//
// The projection is lossy: distinct identifiers may share a code. It is meant
// for human entry only and never identifies a session on its own.
func (id SessionID) Code() string {
	n := new(big.Int).SetBytes(id[:])
	n.Mod(n, codeModulus)
	return fmt.Sprintf("%09d", n.Uint64())
}

// Bytes returns the raw 16 bytes of the identifier.
func (id SessionID) Bytes() []byte {
	out := make([]byte, len(id))
	copy(out, id[:])
	return out
}

// IsZero reports whether id is the all-zero identifier.
func (id SessionID) IsZero() bool { return id == SessionID{} }

// MarshalText encodes the canonical form.
func (id SessionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText accepts the canonical form only.
func (id *SessionID) UnmarshalText(b []byte) error {
	parsed, err := ParseCanonicalSessionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseCanonicalSessionID parses the 36-character lowercase hyphenated form.
func ParseCanonicalSessionID(s string) (SessionID, error) {
	if len(s) != 36 {
		return SessionID{}, fmt.Errorf("%w: session id %q: want 36 characters, got %d", ErrParse, s, len(s))
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, fmt.Errorf("%w: session id %q: %v", ErrParse, s, err)
	}
	if u.String() != s {
		return SessionID{}, fmt.Errorf("%w: session id %q is not in canonical lowercase form", ErrParse, s)
	}
	return SessionID(u), nil
}

// ConnectionMode governs which protocol messages a session may carry.
type ConnectionMode string

const (
	ModeViewOnly     ConnectionMode = "view_only"
	ModeFullControl  ConnectionMode = "full_control"
	ModeFileTransfer ConnectionMode = "file_transfer"
)

// Valid reports whether m is one of the known modes.
func (m ConnectionMode) Valid() bool {
	switch m {
	case ModeViewOnly, ModeFullControl, ModeFileTransfer:
		return true
	}
	return false
}

// ParseConnectionMode accepts the wire names of the modes.
func ParseConnectionMode(s string) (ConnectionMode, error) {
	m := ConnectionMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown connection mode %q", ErrParse, s)
	}
	return m, nil
}

// VideoQuality is consumed by the codec collaborator.
type VideoQuality string

const (
	QualityLow      VideoQuality = "low"      // 720p, 30fps, high compression
	QualityMedium   VideoQuality = "medium"   // 1080p, 30fps, medium compression
	QualityHigh     VideoQuality = "high"     // 1080p, 60fps, low compression
	QualityAdaptive VideoQuality = "adaptive" // follows network conditions
)

// DefaultVideoQuality is used when nothing else is configured.
const DefaultVideoQuality = QualityAdaptive

// ParseVideoQuality accepts the wire names of the qualities.
func ParseVideoQuality(s string) (VideoQuality, error) {
	switch q := VideoQuality(s); q {
	case QualityLow, QualityMedium, QualityHigh, QualityAdaptive:
		return q, nil
	}
	return "", fmt.Errorf("%w: unknown video quality %q", ErrParse, s)
}

// SessionConfig is created once per session at host start or client connect.
type SessionConfig struct {
	SessionID     SessionID      `json:"session_id"`
	Mode          ConnectionMode `json:"mode"`
	PasswordHash  string         `json:"password_hash,omitempty"`
	ClipboardSync bool           `json:"clipboard_sync"`
	Quality       VideoQuality   `json:"quality"`
}

// HasPassword reports whether the session is password protected.
func (c SessionConfig) HasPassword() bool { return c.PasswordHash != "" }
