package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"adaremote/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:10])
}

// SessionFingerprint is the short authentication string both peers display
// after a key exchange. It covers both public keys in host, client order, so
// a relay substituting either key changes what each side sees.
func SessionFingerprint(host, client PublicKey) domain.Fingerprint {
	h := sha256.New()
	h.Write([]byte("adaremote/v1 fingerprint"))
	h.Write(host[:])
	h.Write(client[:])
	raw := hex.EncodeToString(h.Sum(nil)[:10])

	var b strings.Builder
	for i := 0; i < len(raw); i += 4 {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(raw[i : i+4])
	}
	return domain.Fingerprint(b.String())
}
