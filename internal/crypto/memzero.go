package crypto

import (
	"crypto/subtle"
	"runtime"
)

// Wipe zeroes the provided buffers. This is best-effort and aims to
// reduce the chance of the compiler eliding the write.
//
//go:noinline
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
		// Ensure b is considered live until after the copy.
		runtime.KeepAlive(&b)
	}
}
