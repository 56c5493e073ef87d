package platform_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/domain"
	"adaremote/internal/platform"
)

type fakeCapturer struct{ cleaned *int }

func (fakeCapturer) Init(domain.CaptureConfig) error             { return nil }
func (fakeCapturer) CaptureFrame() (domain.RawFrame, error)      { return domain.RawFrame{}, nil }
func (fakeCapturer) ListMonitors() ([]domain.MonitorInfo, error) { return nil, nil }
func (c fakeCapturer) Cleanup() error {
	*c.cleaned++
	return nil
}

type failingInjector struct{}

func (failingInjector) Init() error                    { return nil }
func (failingInjector) Inject(domain.InputEvent) error { return nil }
func (failingInjector) Cleanup() error                 { return errors.New("stuck") }

func TestSelectUnsupported(t *testing.T) {
	_, err := platform.SelectFor("plan9-test")
	require.ErrorIs(t, err, platform.ErrUnsupportedPlatform)
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestRegisterAndSelect(t *testing.T) {
	goos := runtime.GOOS
	platform.Unregister(goos)
	t.Cleanup(func() { platform.Unregister(goos) })

	cleaned := 0
	platform.Register(goos, func() (platform.Backends, error) {
		return platform.Backends{Capturer: fakeCapturer{&cleaned}, Injector: failingInjector{}}, nil
	})
	assert.Contains(t, platform.Registered(), goos)

	b, err := platform.Select()
	require.NoError(t, err)
	require.NotNil(t, b.Capturer)
	assert.Nil(t, b.Encoder)

	assert.EqualError(t, b.Cleanup(), "stuck")
	assert.Equal(t, 1, cleaned)
}

func TestRegisterTwicePanics(t *testing.T) {
	const goos = "twice-test"
	t.Cleanup(func() { platform.Unregister(goos) })
	f := func() (platform.Backends, error) { return platform.Backends{}, nil }
	platform.Register(goos, f)
	assert.Panics(t, func() { platform.Register(goos, f) })
	assert.Panics(t, func() { platform.Register("nil-test", nil) })
}

func TestFactoryError(t *testing.T) {
	const goos = "broken-test"
	t.Cleanup(func() { platform.Unregister(goos) })
	platform.Register(goos, func() (platform.Backends, error) {
		return platform.Backends{}, errors.New("no display")
	})
	_, err := platform.SelectFor(goos)
	assert.ErrorContains(t, err, "no display")
}
