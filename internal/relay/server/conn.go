package server

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"adaremote/internal/protocol/signaling"
)

var (
	errConnClosed     = errors.New("connection closed")
	errSendBufferFull = errors.New("send buffer full")
)

// conn is one accepted websocket. readPump is the only reader and
// writePump the only writer; everything else talks to the socket through
// the buffered send channel.
type conn struct {
	id     string
	remote string
	ws     *websocket.Conn
	srv    *Server
	log    *log.Entry

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	sessions map[string]struct{} // registry keys this connection joined or registered
}

func newConn(srv *Server, ws *websocket.Conn, id, remote string) *conn {
	return &conn{
		id:       id,
		remote:   remote,
		ws:       ws,
		srv:      srv,
		log:      log.WithFields(log.Fields{"conn": id, "remote": remote}),
		send:     make(chan []byte, srv.cfg.SendBuffer),
		done:     make(chan struct{}),
		sessions: make(map[string]struct{}),
	}
}

func (c *conn) ID() string { return c.id }

func (c *conn) Done() <-chan struct{} { return c.done }

// Send encodes m and queues it for writePump. A peer too slow to drain its
// buffer is disconnected rather than allowed to stall its sender.
func (c *conn) Send(m signaling.Message) error {
	data, err := signaling.Marshal(m)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errConnClosed
	default:
		c.srv.metrics.SendDropped()
		c.log.Warn("send buffer full, closing connection")
		c.close()
		return errSendBufferFull
	}
}

// close marks the connection done. writePump then flushes, says goodbye
// and closes the socket, which in turn ends readPump.
func (c *conn) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *conn) track(key string) {
	c.mu.Lock()
	c.sessions[key] = struct{}{}
	c.mu.Unlock()
}

func (c *conn) untrack(key string) {
	c.mu.Lock()
	delete(c.sessions, key)
	c.mu.Unlock()
}

func (c *conn) tracked() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.sessions))
	for k := range c.sessions {
		out = append(out, k)
	}
	return out
}

// readPump reads messages until the socket fails, answering each one on the
// connection's own send queue in arrival order.
func (c *conn) readPump() {
	defer c.close()

	cfg := c.srv.cfg
	c.ws.SetReadLimit(cfg.ReadLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debugf("read: %v", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
		if typ != websocket.TextMessage {
			continue
		}

		reply := c.srv.handle(c, data)
		if err := c.Send(reply); err != nil {
			c.log.Debugf("reply: %v", err)
			return
		}
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *conn) writePump() {
	cfg := c.srv.cfg
	ticker := time.NewTicker(cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debugf("write: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debugf("ping: %v", err)
				return
			}
		case <-c.done:
			c.flush(cfg.WriteWait)
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(cfg.WriteWait))
			return
		}
	}
}

// flush writes whatever is still queued; used on shutdown so a final
// disconnect notice is not lost.
func (c *conn) flush(wait time.Duration) {
	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(wait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}
