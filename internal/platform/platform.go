// Package platform selects the capture, codec and input backends for the
// operating system the process runs on.
//
// Backends register a Factory for their GOOS from an init function, the way
// database/sql drivers do. The process calls Select once at start; nothing
// in the session core depends on which backend was picked.
package platform

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"adaremote/internal/domain"
)

// ErrUnsupportedPlatform is returned by Select when no backend set is
// registered for the running OS.
var ErrUnsupportedPlatform = fmt.Errorf("%w: no backends for this platform", domain.ErrIO)

// Backends is one platform's set of collaborators.
type Backends struct {
	Capturer domain.ScreenCapturer
	Encoder  domain.VideoEncoder
	Decoder  domain.VideoDecoder
	Injector domain.InputInjector
}

// Factory builds a fresh Backends value.
type Factory func() (Backends, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a backend set available for goos. It panics if f is nil or
// goos already has one.
func Register(goos string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		panic("platform: Register factory is nil")
	}
	if _, dup := factories[goos]; dup {
		panic("platform: Register called twice for " + goos)
	}
	factories[goos] = f
}

// Select builds the backends for runtime.GOOS.
func Select() (Backends, error) { return SelectFor(runtime.GOOS) }

// SelectFor builds the backends registered for goos.
func SelectFor(goos string) (Backends, error) {
	mu.RLock()
	f, ok := factories[goos]
	mu.RUnlock()
	if !ok {
		return Backends{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
	b, err := f()
	if err != nil {
		return Backends{}, fmt.Errorf("platform %s: %w", goos, err)
	}
	return b, nil
}

// Registered lists the platforms with a backend set, sorted.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for goos := range factories {
		out = append(out, goos)
	}
	sort.Strings(out)
	return out
}

// Cleanup releases every non-nil backend in b and returns the first error.
func (b Backends) Cleanup() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if b.Capturer != nil {
		keep(b.Capturer.Cleanup())
	}
	if b.Encoder != nil {
		keep(b.Encoder.Cleanup())
	}
	if b.Decoder != nil {
		keep(b.Decoder.Cleanup())
	}
	if b.Injector != nil {
		keep(b.Injector.Cleanup())
	}
	return first
}
