package interfaces

import (
	"context"

	domaintypes "adaremote/internal/domain/types"
)

// ScreenCapturer produces raw frames from a display.
type ScreenCapturer interface {
	Init(cfg domaintypes.CaptureConfig) error
	CaptureFrame() (domaintypes.RawFrame, error)
	ListMonitors() ([]domaintypes.MonitorInfo, error)
	Cleanup() error
}

// VideoEncoder turns raw frames into encoded frames.
type VideoEncoder interface {
	Init(cfg domaintypes.EncoderConfig) error
	Encode(frame domaintypes.RawFrame) (domaintypes.EncodedFrame, error)
	Cleanup() error
}

// VideoDecoder turns encoded frames back into raw frames.
type VideoDecoder interface {
	Init(codec domaintypes.CodecType) error
	Decode(frame domaintypes.EncodedFrame) (domaintypes.RawFrame, error)
	Cleanup() error
}

// InputInjector replays input events on the host.
type InputInjector interface {
	Init() error
	Inject(event domaintypes.InputEvent) error
	Cleanup() error
}

// Transport carries opaque sealed frames once a session is established.
// It is built from the SDP/ICE material the relay forwarded.
type Transport interface {
	Open(ctx context.Context, sessionID domaintypes.SessionID) error
	Send(ctx context.Context, frame []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}
