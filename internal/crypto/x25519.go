package crypto

import (
	"crypto/rand"
	"fmt"
	"sync"

	"golang.org/x/crypto/curve25519"

	"adaremote/internal/domain"
)

// KeySize is the size of X25519 keys and of the derived shared secret.
const KeySize = curve25519.ScalarSize

// PublicKey is an X25519 public key.
type PublicKey [KeySize]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// SharedSecret is the 32-byte Diffie–Hellman output both peers derive.
type SharedSecret [KeySize]byte

// Slice returns the secret as a []byte.
func (s *SharedSecret) Slice() []byte { return s[:] }

// Wipe zeroes the secret in place.
func (s *SharedSecret) Wipe() { Wipe(s[:]) }

// KeyPair is an ephemeral X25519 key pair whose secret half can be used
// exactly once. SharedSecret consumes it; any later call fails with
// domain.ErrKeyConsumed.
type KeyPair struct {
	mu     sync.Mutex
	secret *[KeySize]byte // nil once spent
	public PublicKey
}

// GenerateKeyPair returns a fresh key pair. The private scalar is clamped
// per RFC 7748.
func GenerateKeyPair() (*KeyPair, error) {
	var priv [KeySize]byte
	if _, err := rand.Read(priv[:]); err != nil {
		return nil, fmt.Errorf("%w: reading random scalar: %v", domain.ErrIO, err)
	}
	clamp(&priv)

	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		Wipe(priv[:])
		return nil, fmt.Errorf("%w: x25519 base point: %v", domain.ErrEncoding, err)
	}
	kp := &KeyPair{secret: &priv}
	copy(kp.public[:], pub)
	return kp, nil
}

// PublicKey returns the public half, safe to share with the peer.
func (k *KeyPair) PublicKey() PublicKey { return k.public }

// SharedSecret computes DH(own secret, peer) and consumes the secret, even
// when the peer key turns out to be invalid.
func (k *KeyPair) SharedSecret(peer PublicKey) (SharedSecret, error) {
	k.mu.Lock()
	secret := k.secret
	k.secret = nil
	k.mu.Unlock()

	if secret == nil {
		return SharedSecret{}, domain.ErrKeyConsumed
	}
	defer Wipe(secret[:])

	out, err := curve25519.X25519(secret[:], peer[:])
	if err != nil {
		// low-order peer points yield an all-zero output and land here
		return SharedSecret{}, fmt.Errorf("%w: invalid peer public key: %v", domain.ErrDecoding, err)
	}
	var shared SharedSecret
	copy(shared[:], out)
	Wipe(out)
	return shared, nil
}

// Spent reports whether the secret has been consumed or discarded.
func (k *KeyPair) Spent() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.secret == nil
}

// Discard wipes the secret without using it.
func (k *KeyPair) Discard() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.secret != nil {
		Wipe(k.secret[:])
		k.secret = nil
	}
}

func clamp(k *[KeySize]byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
