package session

import (
	"fmt"

	"adaremote/internal/domain"
)

// Key is a session reference as received from a peer: either a full
// identifier or a bare display code.
type Key struct {
	value string
	code  string
	id    domain.SessionID
	full  bool
}

// ParseKey resolves text to a Key. Full identifiers are normalised to their
// canonical form.
func ParseKey(text string) (Key, error) {
	if IsCode(text) {
		return Key{value: text, code: text}, nil
	}
	id, err := Parse(text)
	if err != nil {
		return Key{}, fmt.Errorf("session key %q: %w", text, err)
	}
	return KeyOf(id), nil
}

// KeyOf returns the key for a full identifier.
func KeyOf(id domain.SessionID) Key {
	return Key{value: id.String(), code: id.Code(), id: id, full: true}
}

// String is the registry key: the canonical identifier, or the code itself
// when only a code is known.
func (k Key) String() string { return k.value }

// Code is the display code the key maps to.
func (k Key) Code() string { return k.code }

// ID returns the full identifier when the key carries one.
func (k Key) ID() (domain.SessionID, bool) { return k.id, k.full }

// IsFull reports whether the key names a full identifier.
func (k Key) IsFull() bool { return k.full }

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool { return k.value == "" }

// Matches reports whether the full identifier id is what k refers to.
func (k Key) Matches(id domain.SessionID) bool {
	if k.full {
		return k.id == id
	}
	return k.code == id.Code()
}
