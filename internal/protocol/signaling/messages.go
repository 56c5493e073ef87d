package signaling

import (
	"fmt"

	"adaremote/internal/domain/types"
	"adaremote/internal/protocol/tagged"
)

// Type is a message discriminator.
type Type string

const (
	TypeRegister     Type = "register"
	TypeJoin         Type = "join"
	TypeOffer        Type = "offer"
	TypeAnswer       Type = "answer"
	TypeIceCandidate Type = "ice_candidate"
	TypeSuccess      Type = "success"
	TypeError        Type = "error"
	TypeDisconnect   Type = "disconnect"
)

// ErrUnknownType is returned by Unmarshal for a well-formed object whose tag
// is not a signaling type.
var ErrUnknownType = fmt.Errorf("%w: unknown signaling message type", types.ErrSerialization)

// Message is the closed set of signaling messages. Only types in this
// package implement it.
type Message interface {
	Type() Type
	isMessage()
}

// Register announces a host for a session.
type Register struct {
	SessionID string `json:"session_id"`
}

// Join attaches a client to a registered session.
type Join struct {
	SessionID string `json:"session_id"`
}

// Offer carries opaque negotiation material to the other peer.
type Offer struct {
	SessionID string `json:"session_id"`
	SDP       string `json:"sdp"`
}

// Answer carries opaque negotiation material to the other peer.
type Answer struct {
	SessionID string `json:"session_id"`
	SDP       string `json:"sdp"`
}

// IceCandidate carries one connectivity candidate to the other peer.
type IceCandidate struct {
	SessionID string `json:"session_id"`
	Candidate string `json:"candidate"`
}

// Success acknowledges a request.
type Success struct {
	Message string `json:"message"`
}

// Error rejects a request.
type Error struct {
	Message string `json:"message"`
}

// Disconnect ends a peer's participation in a session. Sent by a peer to the
// relay, and by the relay to the remaining peer.
type Disconnect struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason,omitempty"`
}

func (Register) Type() Type     { return TypeRegister }
func (Join) Type() Type         { return TypeJoin }
func (Offer) Type() Type        { return TypeOffer }
func (Answer) Type() Type       { return TypeAnswer }
func (IceCandidate) Type() Type { return TypeIceCandidate }
func (Success) Type() Type      { return TypeSuccess }
func (Error) Type() Type        { return TypeError }
func (Disconnect) Type() Type   { return TypeDisconnect }

func (Register) isMessage()     {}
func (Join) isMessage()         {}
func (Offer) isMessage()        {}
func (Answer) isMessage()       {}
func (IceCandidate) isMessage() {}
func (Success) isMessage()      {}
func (Error) isMessage()        {}
func (Disconnect) isMessage()   {}

// Error implements error so a received Error can be returned directly.
func (e Error) Error() string { return e.Message }

// Marshal encodes m with its type tag.
func Marshal(m Message) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil signaling message", types.ErrSerialization)
	}
	return tagged.Marshal(string(m.Type()), m)
}

// Unmarshal decodes one signaling message. Malformed JSON, a missing field
// and an unknown tag all wrap domain.ErrSerialization.
func Unmarshal(data []byte) (Message, error) {
	obj, err := tagged.Parse(data)
	if err != nil {
		return nil, err
	}
	switch Type(obj.Tag) {
	case TypeRegister:
		return decode[Register](obj, "session_id")
	case TypeJoin:
		return decode[Join](obj, "session_id")
	case TypeOffer:
		return decode[Offer](obj, "session_id", "sdp")
	case TypeAnswer:
		return decode[Answer](obj, "session_id", "sdp")
	case TypeIceCandidate:
		return decode[IceCandidate](obj, "session_id", "candidate")
	case TypeSuccess:
		return decode[Success](obj, "message")
	case TypeError:
		return decode[Error](obj, "message")
	case TypeDisconnect:
		return decode[Disconnect](obj, "session_id")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, obj.Tag)
}

// SessionOf returns the session a message refers to. Success and Error
// carry none.
func SessionOf(m Message) (string, bool) {
	switch m := m.(type) {
	case Register:
		return m.SessionID, true
	case Join:
		return m.SessionID, true
	case Offer:
		return m.SessionID, true
	case Answer:
		return m.SessionID, true
	case IceCandidate:
		return m.SessionID, true
	case Disconnect:
		return m.SessionID, true
	case Success, Error:
		return "", false
	}
	panic(fmt.Sprintf("signaling: unhandled message %T", m))
}

func decode[T Message](obj tagged.Object, required ...string) (Message, error) {
	var m T
	if err := obj.Decode(&m, required...); err != nil {
		return nil, err
	}
	return m, nil
}
