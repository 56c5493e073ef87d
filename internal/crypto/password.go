package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"

	"adaremote/internal/domain"
)

// Argon2id parameters for new hashes. Verification reads the parameters
// from the stored hash instead.
const (
	argonMemoryKiB = 19 * 1024
	argonTime      = 2
	argonThreads   = 1
	argonKeyBytes  = 32
	SaltBytes      = 16

	// upper bounds accepted when verifying, to keep a hostile hash string
	// from pinning the CPU or memory
	maxArgonMemoryKiB = 1 << 20
	maxArgonTime      = 16
)

// SessionPasswordDigits is the length of generated session passwords.
const SessionPasswordDigits = 9

var (
	phcB64             = base64.RawStdEncoding
	sessionPasswordMax = big.NewInt(1_000_000_000)
)

// HashPassword returns a self-describing Argon2id hash in PHC string form:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
//
// No password policy is applied here.
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: reading salt: %v", domain.ErrAuthentication, err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKiB, argonThreads, argonKeyBytes)
	defer Wipe(key)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemoryKiB, argonTime, argonThreads,
		phcB64.EncodeToString(salt), phcB64.EncodeToString(key)), nil
}

// VerifyPassword reports whether password matches hash. A mismatch and an
// unparseable hash both return false; no error path exists.
func VerifyPassword(password, hash string) bool {
	p, ok := parsePHC(hash)
	if !ok {
		return false
	}
	key := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	defer Wipe(key)
	return subtle.ConstantTimeCompare(key, p.key) == 1
}

// GenerateSessionPassword returns 9 decimal digits drawn uniformly from
// [0, 10^9), left-padded with zeros.
func GenerateSessionPassword() string {
	n, err := rand.Int(rand.Reader, sessionPasswordMax)
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Errorf("crypto: generating session password: %w", err))
	}
	return fmt.Sprintf("%0*d", SessionPasswordDigits, n.Int64())
}

type phcParams struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func parsePHC(s string) (phcParams, bool) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return phcParams{}, false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return phcParams{}, false
	}
	var p phcParams
	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &threads); err != nil {
		return phcParams{}, false
	}
	if p.memory == 0 || p.memory > maxArgonMemoryKiB || p.time == 0 || p.time > maxArgonTime ||
		threads == 0 || threads > 255 {
		return phcParams{}, false
	}
	p.threads = uint8(threads)

	var err error
	if p.salt, err = phcB64.DecodeString(parts[4]); err != nil || len(p.salt) < 8 {
		return phcParams{}, false
	}
	if p.key, err = phcB64.DecodeString(parts[5]); err != nil || len(p.key) < 16 {
		return phcParams{}, false
	}
	return p, true
}
