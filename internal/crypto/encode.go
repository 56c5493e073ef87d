package crypto

import (
	"encoding/base64"
	"fmt"

	"adaremote/internal/domain"
)

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// MarshalText encodes the public key as standard base64.
func (p PublicKey) MarshalText() ([]byte, error) { return []byte(B64(p[:])), nil }

// UnmarshalText decodes a base64 public key of exactly KeySize bytes.
func (p *PublicKey) UnmarshalText(text []byte) error {
	b, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("%w: public key: %v", domain.ErrSerialization, err)
	}
	if len(b) != KeySize {
		return fmt.Errorf("%w: public key: want %d bytes, got %d", domain.ErrSerialization, KeySize, len(b))
	}
	copy(p[:], b)
	return nil
}
