package message

import (
	"fmt"

	"github.com/google/uuid"

	"adaremote/internal/domain/types"
	"adaremote/internal/protocol/tagged"
)

// Type is a protocol message discriminator.
type Type string

const (
	TypeSessionRequest       Type = "session_request"
	TypeSessionResponse      Type = "session_response"
	TypeHeartbeat            Type = "heartbeat"
	TypeVideoFrame           Type = "video_frame"
	TypeInputEvent           Type = "input_event"
	TypeClipboard            Type = "clipboard"
	TypeFileTransferStart    Type = "file_transfer_start"
	TypeFileTransferChunk    Type = "file_transfer_chunk"
	TypeFileTransferComplete Type = "file_transfer_complete"
	TypeDisconnect           Type = "disconnect"
)

// ErrUnknownType is returned by Unmarshal for an unrecognised tag.
var ErrUnknownType = fmt.Errorf("%w: unknown protocol message type", types.ErrSerialization)

// Message is the closed set of protocol messages.
type Message interface {
	Type() Type
	isMessage()
}

// SessionRequest is the client's first sealed message. An empty Password
// means none was supplied.
type SessionRequest struct {
	SessionID types.SessionID      `json:"session_id"`
	Password  string               `json:"password,omitempty"`
	Mode      types.ConnectionMode `json:"mode"`
}

// SessionResponse is the host's verdict on a SessionRequest.
type SessionResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

type Heartbeat struct{}

type VideoFrame struct {
	Timestamp uint64 `json:"timestamp"`
	Data      []byte `json:"data"`
}

type InputEvent struct {
	EventType types.InputEventType `json:"event_type"`
	Data      []byte               `json:"data"`
}

type Clipboard struct {
	Content string `json:"content"`
}

type FileTransferStart struct {
	FileName   string    `json:"file_name"`
	FileSize   uint64    `json:"file_size"`
	TransferID uuid.UUID `json:"transfer_id"`
}

type FileTransferChunk struct {
	TransferID uuid.UUID `json:"transfer_id"`
	ChunkIndex uint64    `json:"chunk_index"`
	Data       []byte    `json:"data"`
}

type FileTransferComplete struct {
	TransferID uuid.UUID `json:"transfer_id"`
}

type Disconnect struct {
	Reason string `json:"reason"`
}

func (SessionRequest) Type() Type       { return TypeSessionRequest }
func (SessionResponse) Type() Type      { return TypeSessionResponse }
func (Heartbeat) Type() Type            { return TypeHeartbeat }
func (VideoFrame) Type() Type           { return TypeVideoFrame }
func (InputEvent) Type() Type           { return TypeInputEvent }
func (Clipboard) Type() Type            { return TypeClipboard }
func (FileTransferStart) Type() Type    { return TypeFileTransferStart }
func (FileTransferChunk) Type() Type    { return TypeFileTransferChunk }
func (FileTransferComplete) Type() Type { return TypeFileTransferComplete }
func (Disconnect) Type() Type           { return TypeDisconnect }

func (SessionRequest) isMessage()       {}
func (SessionResponse) isMessage()      {}
func (Heartbeat) isMessage()            {}
func (VideoFrame) isMessage()           {}
func (InputEvent) isMessage()           {}
func (Clipboard) isMessage()            {}
func (FileTransferStart) isMessage()    {}
func (FileTransferChunk) isMessage()    {}
func (FileTransferComplete) isMessage() {}
func (Disconnect) isMessage()           {}

// Marshal encodes m with its type tag.
func Marshal(m Message) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil protocol message", types.ErrSerialization)
	}
	return tagged.Marshal(string(m.Type()), m)
}

// Unmarshal decodes one protocol message.
func Unmarshal(data []byte) (Message, error) {
	obj, err := tagged.Parse(data)
	if err != nil {
		return nil, err
	}
	switch Type(obj.Tag) {
	case TypeSessionRequest:
		m, err := decode[SessionRequest](obj, "session_id", "mode")
		if err != nil {
			return nil, err
		}
		if mode := m.(SessionRequest).Mode; !mode.Valid() {
			return nil, fmt.Errorf("%w: unknown connection mode %q", types.ErrSerialization, mode)
		}
		return m, nil
	case TypeSessionResponse:
		return decode[SessionResponse](obj, "accepted")
	case TypeHeartbeat:
		return Heartbeat{}, nil
	case TypeVideoFrame:
		return decode[VideoFrame](obj, "timestamp")
	case TypeInputEvent:
		m, err := decode[InputEvent](obj, "event_type")
		if err != nil {
			return nil, err
		}
		if et := m.(InputEvent).EventType; !et.Valid() {
			return nil, fmt.Errorf("%w: unknown input event type %q", types.ErrSerialization, et)
		}
		return m, nil
	case TypeClipboard:
		return decode[Clipboard](obj, "content")
	case TypeFileTransferStart:
		return decode[FileTransferStart](obj, "file_name", "file_size", "transfer_id")
	case TypeFileTransferChunk:
		return decode[FileTransferChunk](obj, "transfer_id", "chunk_index")
	case TypeFileTransferComplete:
		return decode[FileTransferComplete](obj, "transfer_id")
	case TypeDisconnect:
		return decode[Disconnect](obj, "reason")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, obj.Tag)
}

func decode[T Message](obj tagged.Object, required ...string) (Message, error) {
	var m T
	if err := obj.Decode(&m, required...); err != nil {
		return nil, err
	}
	return m, nil
}

// Permits reports whether a session in mode may carry m. Session control
// messages, heartbeats and video are always allowed.
func Permits(mode types.ConnectionMode, m Message) bool {
	switch m.(type) {
	case SessionRequest, SessionResponse, Heartbeat, Disconnect, VideoFrame:
		return true
	case InputEvent, Clipboard:
		return mode == types.ModeFullControl
	case FileTransferStart, FileTransferChunk, FileTransferComplete:
		return mode == types.ModeFullControl || mode == types.ModeFileTransfer
	}
	panic(fmt.Sprintf("message: unhandled message %T", m))
}
