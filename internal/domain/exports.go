package domain

import (
	interfaces "adaremote/internal/domain/interfaces"
	types "adaremote/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	SessionID      = types.SessionID
	SessionConfig  = types.SessionConfig
	ConnectionMode = types.ConnectionMode
	VideoQuality   = types.VideoQuality
	Fingerprint    = types.Fingerprint
	Role           = types.Role
	RawFrame       = types.RawFrame
	EncodedFrame   = types.EncodedFrame
	MonitorInfo    = types.MonitorInfo
	CaptureConfig  = types.CaptureConfig
	EncoderConfig  = types.EncoderConfig
	CodecType      = types.CodecType
	InputEvent     = types.InputEvent
	InputEventType = types.InputEventType
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	ScreenCapturer  = interfaces.ScreenCapturer
	VideoEncoder    = interfaces.VideoEncoder
	VideoDecoder    = interfaces.VideoDecoder
	InputInjector   = interfaces.InputInjector
	Transport       = interfaces.Transport
	SignalingClient = interfaces.SignalingClient
	SessionStore    = interfaces.SessionStore
)

// Constants re-exported for callers that only import domain.
const (
	ModeViewOnly     = types.ModeViewOnly
	ModeFullControl  = types.ModeFullControl
	ModeFileTransfer = types.ModeFileTransfer

	QualityLow      = types.QualityLow
	QualityMedium   = types.QualityMedium
	QualityHigh     = types.QualityHigh
	QualityAdaptive = types.QualityAdaptive

	RoleHost   = types.RoleHost
	RoleClient = types.RoleClient
)

// Error kinds and specific failures; see types/errors.go.
var (
	ErrNetwork        = types.ErrNetwork
	ErrAuthentication = types.ErrAuthentication
	ErrSession        = types.ErrSession
	ErrEncoding       = types.ErrEncoding
	ErrDecoding       = types.ErrDecoding
	ErrIO             = types.ErrIO
	ErrSerialization  = types.ErrSerialization

	ErrParse                = types.ErrParse
	ErrSessionNotFound      = types.ErrSessionNotFound
	ErrAmbiguousSessionCode = types.ErrAmbiguousSessionCode
	ErrKeyConsumed          = types.ErrKeyConsumed
	ErrDecryption           = types.ErrDecryption
	ErrReplay               = types.ErrReplay
	ErrAuthenticationFailed = types.ErrAuthenticationFailed
)
