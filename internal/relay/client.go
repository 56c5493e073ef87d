package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"adaremote/internal/domain"
	"adaremote/internal/protocol/signaling"
)

// ErrClosed is returned by Request once the connection has gone away.
var ErrClosed = fmt.Errorf("%w: signaling connection closed", domain.ErrNetwork)

// RejectedError is an error reply from the relay. It unwraps to the domain
// error matching the relay's message so callers can branch with errors.Is.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return "relay: " + e.Message }

func (e *RejectedError) Unwrap() error {
	switch e.Message {
	case "Session not found":
		return domain.ErrSessionNotFound
	case "Session code is ambiguous":
		return domain.ErrAmbiguousSessionCode
	case "Invalid message format", "Invalid message type", "Invalid session ID":
		return domain.ErrSerialization
	}
	return domain.ErrSession
}

// Client is a websocket connection to the relay. Requests are answered in
// order, one at a time; anything else the relay sends (forwarded offers,
// answers, candidates and disconnect notices) arrives on Pushes.
type Client struct {
	ws *websocket.Conn

	reqMu     sync.Mutex // one request in flight
	writeMu   sync.Mutex
	writeWait time.Duration
	responses chan signaling.Message
	pushes    chan signaling.Message

	done      chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
}

// DialOptions tune Dial.
type DialOptions struct {
	// Timeout bounds the whole dial including retries. Zero means 10s.
	Timeout time.Duration
	// Header is sent with the upgrade request.
	Header http.Header
	// PushBuffer sizes the push channel. Zero means 64.
	PushBuffer int
}

// Dial connects to the relay at url, retrying with exponential backoff
// until opts.Timeout elapses or ctx is done.
func Dial(ctx context.Context, url string, opts DialOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PushBuffer <= 0 {
		opts.PushBuffer = 64
	}

	var ws *websocket.Conn
	operation := func() error {
		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, opts.Header)
		if err != nil {
			if resp != nil && resp.StatusCode/100 == 4 {
				return backoff.Permanent(fmt.Errorf("relay refused upgrade: %s", resp.Status))
			}
			return err
		}
		ws = conn
		return nil
	}
	err := backoff.RetryNotify(operation, dialBackoff(ctx, opts.Timeout), func(err error, d time.Duration) {
		log.Debugf("dial %s failed, retrying in %v: %v", url, d, err)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrNetwork, url, err)
	}

	c := &Client{
		ws:        ws,
		writeWait: 10 * time.Second,
		responses: make(chan signaling.Message, 1),
		pushes:    make(chan signaling.Message, opts.PushBuffer),
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func dialBackoff(ctx context.Context, maxElapsed time.Duration) backoff.BackOff {
	return backoff.WithContext(&backoff.ExponentialBackOff{
		InitialInterval:     200 * time.Millisecond,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         2 * time.Second,
		MaxElapsedTime:      maxElapsed,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}, ctx)
}

// Request sends m and waits for the relay's reply. A success reply is
// returned; an error reply comes back as *RejectedError.
//
// If ctx ends before the reply arrives the connection is closed, since a
// late reply could otherwise be taken as the answer to the next request.
func (c *Client) Request(ctx context.Context, m signaling.Message) (signaling.Message, error) {
	c.reqMu.Lock()
	defer c.reqMu.Unlock()

	if err := c.write(m); err != nil {
		return nil, err
	}
	select {
	case reply := <-c.responses:
		if e, ok := reply.(signaling.Error); ok {
			return nil, &RejectedError{Message: e.Message}
		}
		return reply, nil
	case <-c.done:
		return nil, c.closedErr()
	case <-ctx.Done():
		_ = c.Close()
		return nil, fmt.Errorf("%w: waiting for %s reply: %v", domain.ErrNetwork, m.Type(), ctx.Err())
	}
}

// Pushes delivers relay messages that are not replies. It is closed when
// the connection ends. Pushes that arrive while the buffer is full are
// dropped.
func (c *Client) Pushes() <-chan signaling.Message { return c.pushes }

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns why the connection ended, or nil while it is open.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close sends a close frame and tears the connection down.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	c.shutdown(ErrClosed)
	return nil
}

func (c *Client) write(m signaling.Message) error {
	data, err := signaling.Marshal(m)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return c.closedErr()
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		c.shutdown(fmt.Errorf("%w: write: %v", domain.ErrNetwork, err))
		return c.closedErr()
	}
	return nil
}

func (c *Client) readLoop() {
	defer close(c.pushes)
	for {
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			c.shutdown(fmt.Errorf("%w: read: %v", domain.ErrNetwork, err))
			return
		}
		if typ != websocket.TextMessage {
			continue
		}
		m, err := signaling.Unmarshal(data)
		if err != nil {
			log.Warnf("relay sent an undecodable message (%d bytes): %v", len(data), err)
			continue
		}

		switch m.(type) {
		case signaling.Success, signaling.Error:
			select {
			case c.responses <- m:
			default:
				log.Warnf("dropping unsolicited %s from relay", m.Type())
			}
		default:
			// replies share this reader, so a full push buffer drops the push
			select {
			case c.pushes <- m:
			default:
				log.Warnf("push buffer full, dropping %s from relay", m.Type())
			}
		}
	}
}

func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.errMu.Lock()
		c.err = cause
		c.errMu.Unlock()
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Client) closedErr() error {
	if err := c.Err(); err != nil && !errors.Is(err, ErrClosed) {
		return fmt.Errorf("%w (%v)", ErrClosed, err)
	}
	return ErrClosed
}

var _ domain.SignalingClient = (*Client)(nil)
