package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"adaremote/internal/domain"
)

// NonceSize is the ChaCha20-Poly1305 nonce length.
const NonceSize = chacha20poly1305.NonceSize

// EncryptedMessage is one sealed payload and the nonce it was sealed under.
type EncryptedMessage struct {
	Ciphertext []byte          `json:"ciphertext"`
	Nonce      [NonceSize]byte `json:"nonce"`
}

// Channel is an AEAD context bound to one session key. It keeps no state
// besides the key; every Encrypt draws a fresh random nonce.
type Channel struct {
	aead cipher.AEAD
}

// FromSharedSecret binds the raw shared secret directly as the AEAD key.
func FromSharedSecret(secret SharedSecret) (*Channel, error) {
	var zero SharedSecret
	if subtle.ConstantTimeCompare(secret[:], zero[:]) == 1 {
		return nil, fmt.Errorf("%w: refusing all-zero channel key", domain.ErrEncoding)
	}
	aead, err := chacha20poly1305.New(secret[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncoding, err)
	}
	return &Channel{aead: aead}, nil
}

// DeriveChannel passes the shared secret through HKDF-SHA256 with info as
// the context string before binding it as the AEAD key.
func DeriveChannel(secret SharedSecret, info []byte) (*Channel, error) {
	var key SharedSecret
	defer key.Wipe()
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret[:], nil, info), key[:]); err != nil {
		return nil, fmt.Errorf("%w: hkdf: %v", domain.ErrEncoding, err)
	}
	return FromSharedSecret(key)
}

// Close drops the key. Later Encrypt and Decrypt calls fail. It must not
// race with them.
func (c *Channel) Close() {
	if c != nil {
		c.aead = nil
	}
}

// Encrypt seals plaintext and authenticates associatedData with it.
func (c *Channel) Encrypt(plaintext, associatedData []byte) (EncryptedMessage, error) {
	if c == nil || c.aead == nil {
		return EncryptedMessage{}, fmt.Errorf("%w: channel has no key", domain.ErrEncoding)
	}
	var msg EncryptedMessage
	if _, err := rand.Read(msg.Nonce[:]); err != nil {
		return EncryptedMessage{}, fmt.Errorf("%w: reading nonce: %v", domain.ErrIO, err)
	}
	msg.Ciphertext = c.aead.Seal(nil, msg.Nonce[:], plaintext, associatedData)
	return msg, nil
}

// Decrypt opens msg. Any tampering, associated-data mismatch or wrong key
// yields domain.ErrDecryption and no plaintext.
func (c *Channel) Decrypt(msg EncryptedMessage, associatedData []byte) ([]byte, error) {
	if c == nil || c.aead == nil {
		return nil, fmt.Errorf("%w: channel has no key", domain.ErrDecryption)
	}
	pt, err := c.aead.Open(nil, msg.Nonce[:], msg.Ciphertext, associatedData)
	if err != nil {
		return nil, domain.ErrDecryption
	}
	return pt, nil
}
