package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"adaremote/internal/app"
	"adaremote/internal/platform"
	"adaremote/internal/protocol/handshake"
	"adaremote/internal/protocol/message"
)

const leaveTimeout = 3 * time.Second

// interruptible returns a context cancelled on SIGINT or SIGTERM.
func interruptible(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// selectBackends picks the capture, codec and input backends for this OS.
// Without any the session still runs; only signaling and sealed control
// messages are available.
func selectBackends() (platform.Backends, error) {
	b, err := platform.Select()
	if errors.Is(err, platform.ErrUnsupportedPlatform) {
		log.Warnf("%v; continuing without screen and input backends", err)
		return platform.Backends{}, nil
	}
	return b, err
}

func printEstablished(est *handshake.Established) {
	fmt.Printf("Session established (mode %s).\n", est.Mode)
	fmt.Printf("Fingerprint: %s\n", est.Fingerprint)
	fmt.Println("Compare the fingerprint with your peer before continuing.")
}

// hold keeps an established session open until the peer leaves, the relay
// drops, or the user interrupts, then tells the peer and the relay this side
// is done.
func hold(ctx context.Context, conn *app.Conn, est *handshake.Established) error {
	err := conn.Sessions.Hold(ctx, est, func(m message.Message) {
		log.Debugf("received %s", m.Type())
	})
	interrupted := errors.Is(err, context.Canceled)

	lctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	if interrupted {
		fmt.Println("Closing session.")
		_ = conn.Sessions.Send(lctx, est, message.Disconnect{Reason: "closed by user"})
		err = nil
	} else if err == nil {
		fmt.Println("Peer left the session.")
	}
	_ = conn.Sessions.Leave(lctx, est.SessionID, "")
	return err
}
