package interfaces

import (
	"context"

	"adaremote/internal/protocol/signaling"
)

// SignalingClient is how peers talk to the relay. Request sends one message
// and waits for the relay's success or error reply; Pushes delivers messages
// the relay forwarded from the other peer.
type SignalingClient interface {
	Request(ctx context.Context, msg signaling.Message) (signaling.Message, error)
	Pushes() <-chan signaling.Message
	Close() error
}
