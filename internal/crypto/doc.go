// Package crypto exposes the primitives used to secure a session.
//
// Contents
//
//   - Ephemeral X25519 key pairs whose secret is consumed by the first
//     Diffie–Hellman (GenerateKeyPair, KeyPair.SharedSecret)
//   - ChaCha20-Poly1305 channels over a shared secret, raw or HKDF derived
//     (FromSharedSecret, DeriveChannel)
//   - Argon2id password hashing in PHC string form and random numeric
//     session passwords (HashPassword, VerifyPassword, GenerateSessionPassword)
//   - Short fingerprints for display and logging (Fingerprint,
//     SessionFingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// Keys are fixed-size arrays to avoid accidental reallocations. Callers
// should treat secrets as sensitive and rely on Wipe when practical to reduce
// their lifetime in memory.
package crypto
