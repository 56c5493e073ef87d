package message

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"adaremote/internal/crypto"
	"adaremote/internal/domain/types"
)

const adLabel = "adaremote/v1"

// Frame is one sealed protocol message as carried by a transport.
type Frame struct {
	Seq        uint64 `json:"seq"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// EncodeFrame serialises f as JSON.
func EncodeFrame(f Frame) ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("%w: frame: %v", types.ErrSerialization, err)
	}
	return b, nil
}

// DecodeFrame parses a frame produced by EncodeFrame.
func DecodeFrame(b []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(b, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: frame: %v", types.ErrSerialization, err)
	}
	if len(f.Nonce) != crypto.NonceSize {
		return Frame{}, fmt.Errorf("%w: frame nonce must be %d bytes", types.ErrSerialization, crypto.NonceSize)
	}
	return f, nil
}

// Sealer seals outgoing and opens incoming protocol messages for one side
// of one session. Associated data binds every frame to the session id, the
// sender's role and a per-direction sequence number, so a frame cannot be
// replayed, reordered, reflected back to its sender or moved to another
// session.
//
// A Sealer is safe for concurrent use.
type Sealer struct {
	ch   *crypto.Channel
	id   types.SessionID
	role types.Role

	sendMu  sync.Mutex
	sendSeq uint64

	recvMu  sync.Mutex
	recvSeq uint64 // last accepted
}

// NewSealer returns a Sealer for the side identified by role.
func NewSealer(ch *crypto.Channel, id types.SessionID, role types.Role) *Sealer {
	return &Sealer{ch: ch, id: id, role: role}
}

// Role returns the local side's role.
func (s *Sealer) Role() types.Role { return s.role }

// Seal encodes and encrypts m under the next send sequence number.
func (s *Sealer) Seal(m Message) (Frame, error) {
	pt, err := Marshal(m)
	if err != nil {
		return Frame{}, err
	}
	defer crypto.Wipe(pt)

	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	seq := s.sendSeq + 1
	enc, err := s.ch.Encrypt(pt, s.associatedData(s.role, seq))
	if err != nil {
		return Frame{}, err
	}
	s.sendSeq = seq
	return Frame{Seq: seq, Nonce: enc.Nonce[:], Ciphertext: enc.Ciphertext}, nil
}

// Open authenticates and decodes a frame sealed by the peer. Frames whose
// sequence number does not exceed the last accepted one fail with
// domain.ErrReplay; any authentication failure is domain.ErrDecryption.
func (s *Sealer) Open(f Frame) (Message, error) {
	if len(f.Nonce) != crypto.NonceSize {
		return nil, fmt.Errorf("%w: bad nonce length %d", types.ErrDecryption, len(f.Nonce))
	}
	s.recvMu.Lock()
	defer s.recvMu.Unlock()
	if f.Seq <= s.recvSeq {
		return nil, fmt.Errorf("%w: seq %d, last %d", types.ErrReplay, f.Seq, s.recvSeq)
	}

	var enc crypto.EncryptedMessage
	copy(enc.Nonce[:], f.Nonce)
	enc.Ciphertext = f.Ciphertext
	pt, err := s.ch.Decrypt(enc, s.associatedData(s.role.Peer(), f.Seq))
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(pt)

	m, err := Unmarshal(pt)
	if err != nil {
		return nil, fmt.Errorf("%w: sealed payload: %v", types.ErrDecoding, err)
	}
	s.recvSeq = f.Seq
	return m, nil
}

func (s *Sealer) associatedData(sender types.Role, seq uint64) []byte {
	ad := make([]byte, 0, len(adLabel)+len(s.id)+1+8)
	ad = append(ad, adLabel...)
	ad = append(ad, s.id[:]...)
	ad = append(ad, byte(sender))
	return binary.BigEndian.AppendUint64(ad, seq)
}
