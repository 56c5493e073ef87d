// Package handshake defines the payloads peers tunnel through the relay's
// offer and answer messages to agree on a session key, and the key
// schedule applied once both public keys are known.
//
// The relay sees public keys and sealed frames only. Both peers display the
// Fingerprint so a substituted key can be caught out of band.
package handshake

import (
	"encoding/json"
	"fmt"

	"adaremote/internal/crypto"
	"adaremote/internal/domain/types"
	"adaremote/internal/protocol/message"
)

const infoLabel = "adaremote/v1 session key "

// Payload is the JSON document carried in an offer or answer SDP field.
// Which fields are set depends on the step.
type Payload struct {
	PublicKey *crypto.PublicKey `json:"public_key,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	// SDP is opaque transport negotiation material for the data channel
	// collaborator.
	SDP    string         `json:"sdp,omitempty"`
	Sealed *message.Frame `json:"sealed,omitempty"`
}

// Encode renders p for an offer or answer.
func Encode(p Payload) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: handshake payload: %v", types.ErrSerialization, err)
	}
	return string(b), nil
}

// Decode parses an offer or answer SDP field.
func Decode(sdp string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(sdp), &p); err != nil {
		return Payload{}, fmt.Errorf("%w: handshake payload: %v", types.ErrSerialization, err)
	}
	return p, nil
}

// Keys is what both sides hold once the exchange is done.
type Keys struct {
	Channel     *crypto.Channel
	Sealer      *message.Sealer
	Fingerprint types.Fingerprint
}

// Discard drops the channel key of an exchange that will not be used.
func (k *Keys) Discard() {
	if k != nil {
		k.Channel.Close()
	}
}

// Derive consumes own's secret against peer and builds the session channel.
// The channel key is HKDF-derived with the session id as context so the same
// key pair can never yield the same key under two sessions.
func Derive(own *crypto.KeyPair, peer crypto.PublicKey, id types.SessionID, role types.Role) (*Keys, error) {
	secret, err := own.SharedSecret(peer)
	if err != nil {
		return nil, err
	}
	defer secret.Wipe()

	ch, err := crypto.DeriveChannel(secret, ChannelInfo(id))
	if err != nil {
		return nil, err
	}
	host, client := own.PublicKey(), peer
	if role == types.RoleClient {
		host, client = peer, own.PublicKey()
	}
	return &Keys{
		Channel:     ch,
		Sealer:      message.NewSealer(ch, id, role),
		Fingerprint: crypto.SessionFingerprint(host, client),
	}, nil
}

// ChannelInfo is the HKDF info string for a session.
func ChannelInfo(id types.SessionID) []byte {
	return append([]byte(infoLabel), id[:]...)
}

// Established is the result of a successful session establishment.
type Established struct {
	SessionID     types.SessionID
	Mode          types.ConnectionMode
	ClipboardSync bool
	Keys
}
