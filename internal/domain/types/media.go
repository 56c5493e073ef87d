package types

// RawFrame is an unencoded RGBA frame produced by a screen capturer.
type RawFrame struct {
	Data      []byte
	Width     uint32
	Height    uint32
	Timestamp uint64 // microseconds
}

// EncodedFrame is produced by a video encoder and consumed by a decoder.
type EncodedFrame struct {
	Data      []byte
	Timestamp uint64
	KeyFrame  bool
}

// MonitorInfo describes one capturable display.
type MonitorInfo struct {
	Index     int
	Name      string
	Width     uint32
	Height    uint32
	IsPrimary bool
}

// CaptureConfig selects what and how often to capture.
type CaptureConfig struct {
	MonitorIndex  int
	FPS           uint32
	CaptureCursor bool
}

// DefaultCaptureConfig captures the primary monitor at 30fps with the cursor.
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{MonitorIndex: 0, FPS: 30, CaptureCursor: true}
}

// CodecType names a video bitstream format.
type CodecType string

const (
	CodecH264 CodecType = "h264"
	CodecVP9  CodecType = "vp9"
)

// EncoderConfig parameterises a video encoder.
type EncoderConfig struct {
	Codec         CodecType
	Width         uint32
	Height        uint32
	FPS           uint32
	BitrateKbps   uint32
	HardwareAccel bool
	Quality       VideoQuality
}

// DefaultEncoderConfig is 1080p30 H.264 at 2 Mbps.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		Codec:         CodecH264,
		Width:         1920,
		Height:        1080,
		FPS:           30,
		BitrateKbps:   2000,
		HardwareAccel: true,
		Quality:       DefaultVideoQuality,
	}
}

// InputEventType is the kind of a keyboard or mouse event.
type InputEventType string

const (
	InputKeyPress           InputEventType = "key_press"
	InputKeyRelease         InputEventType = "key_release"
	InputMouseMove          InputEventType = "mouse_move"
	InputMouseButtonPress   InputEventType = "mouse_button_press"
	InputMouseButtonRelease InputEventType = "mouse_button_release"
	InputMouseScroll        InputEventType = "mouse_scroll"
)

// Valid reports whether t is a known event type.
func (t InputEventType) Valid() bool {
	switch t {
	case InputKeyPress, InputKeyRelease, InputMouseMove,
		InputMouseButtonPress, InputMouseButtonRelease, InputMouseScroll:
		return true
	}
	return false
}

// InputEvent is handed to an input injector. Data is backend specific.
type InputEvent struct {
	Type InputEventType
	Data []byte
}
