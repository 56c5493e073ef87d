package session

import (
	"fmt"

	"github.com/google/uuid"

	"adaremote/internal/domain"
	"adaremote/internal/domain/types"
)

// CodeLength is the number of digits in a display code.
const CodeLength = 9

// Generate returns a fresh identifier drawn from crypto/rand.
func Generate() (domain.SessionID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return domain.SessionID{}, fmt.Errorf("%w: generating session id: %v", domain.ErrIO, err)
	}
	return domain.SessionID(u), nil
}

// Parse accepts exactly the canonical serialization produced by
// domain.SessionID.String.
func Parse(text string) (domain.SessionID, error) {
	return types.ParseCanonicalSessionID(text)
}

// Display returns the 9-digit code shown to users.
func Display(id domain.SessionID) string { return id.Code() }

// IsCode reports whether text is a well-formed display code.
func IsCode(text string) bool {
	if len(text) != CodeLength {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}
