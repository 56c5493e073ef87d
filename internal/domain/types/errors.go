package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by this module wraps exactly one of them.
var (
	ErrNetwork        = errors.New("network error")
	ErrAuthentication = errors.New("authentication error")
	ErrSession        = errors.New("session error")
	ErrEncoding       = errors.New("encoding error")
	ErrDecoding       = errors.New("decoding error")
	ErrIO             = errors.New("io error")
	ErrSerialization  = errors.New("serialization error")
)

// Specific failures, each wrapping its kind.
var (
	ErrParse                = fmt.Errorf("%w: malformed identifier", ErrSerialization)
	ErrSessionNotFound      = fmt.Errorf("%w: session not found", ErrSession)
	ErrAmbiguousSessionCode = fmt.Errorf("%w: session code is ambiguous", ErrSession)
	ErrKeyConsumed          = fmt.Errorf("%w: ephemeral secret already consumed", ErrSession)
	ErrDecryption           = fmt.Errorf("%w: decryption failed", ErrDecoding)
	ErrReplay               = fmt.Errorf("%w: stale or replayed frame", ErrDecoding)
	ErrAuthenticationFailed = fmt.Errorf("%w: authentication failed", ErrAuthentication)
)
