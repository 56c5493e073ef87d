package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"adaremote/internal/config"
	"adaremote/internal/domain"
	"adaremote/internal/metrics"
	"adaremote/internal/protocol/signaling"
	"adaremote/internal/ratelimit"
	"adaremote/internal/session"
)

// Replies sent to the requesting connection.
const (
	msgInvalidFormat     = "Invalid message format"
	msgInvalidType       = "Invalid message type"
	msgInvalidSessionID  = "Invalid session ID"
	msgSessionNotFound   = "Session not found"
	msgAmbiguousCode     = "Session code is ambiguous"
	msgNotParticipant    = "Not a participant in session"
	msgPeerNotConnected  = "Peer not connected"
	msgTooManyJoins      = "Too many join attempts"
	msgForwarded         = "Message forwarded"
	reasonHostLeft       = "Host disconnected"
	reasonClientLeft     = "Client disconnected"
	reasonReplacedHost   = "Session registered by another host"
	reasonReplacedClient = "Another client joined the session"
)

// Server is the signaling relay. It matches hosts with clients through the
// Registry and forwards negotiation messages between them without looking
// inside.
type Server struct {
	cfg      config.Relay
	registry *Registry
	joins    *ratelimit.Limiter
	metrics  metrics.Collector
	upgrader websocket.Upgrader
	router   *mux.Router

	connsMu sync.Mutex
	conns   map[*conn]struct{}
}

// New returns a Server using cfg. A nil collector disables metrics.
func New(cfg config.Relay, collector metrics.Collector) *Server {
	if collector == nil {
		collector = metrics.Nop{}
	}
	s := &Server{
		cfg:      cfg,
		registry: NewRegistry(),
		joins: ratelimit.New(ratelimit.Config{
			PerMinute: cfg.JoinsPerMinute,
			Burst:     cfg.JoinBurst,
		}),
		metrics: collector,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// peers are native applications, not browsers
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*conn]struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.ServeWS)
	r.HandleFunc("/ws", s.ServeWS)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	s.router = r
	return s
}

// Handler returns the HTTP handler serving every relay route.
func (s *Server) Handler() http.Handler { return s.router }

// Registry exposes the session registry.
func (s *Server) Registry() *Registry { return s.registry }

// ServeWS upgrades the request and runs the connection until it closes.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	c := newConn(s, ws, uuid.NewString(), r.RemoteAddr)
	s.connsMu.Lock()
	s.conns[c] = struct{}{}
	s.connsMu.Unlock()
	s.metrics.ConnectionOpened()
	c.log.Debug("connection opened")

	go c.writePump()
	c.readPump()

	s.connsMu.Lock()
	delete(s.conns, c)
	s.connsMu.Unlock()
	s.dropConn(c)
	s.metrics.ConnectionClosed()
	c.log.Debug("connection closed")
}

// Run sweeps dead endpoints from the registry and expires idle join
// limiters until ctx is done, then closes every connection.
func (s *Server) Run(ctx context.Context) error {
	interval := s.cfg.SweepInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
			s.joins.Expire()
		case <-ctx.Done():
			s.Close()
			return nil
		}
	}
}

// Sweep removes sessions whose host is gone and clears departed clients.
func (s *Server) Sweep() {
	for _, d := range s.registry.Sweep() {
		s.notifyDeparture(d, "sweep")
	}
}

// Close disconnects every connection.
func (s *Server) Close() {
	s.connsMu.Lock()
	conns := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.connsMu.Unlock()
	for _, c := range conns {
		c.close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

type status struct {
	Sessions    int `json:"sessions"`
	Connections int `json:"connections"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.connsMu.Lock()
	n := len(s.conns)
	s.connsMu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status{Sessions: s.registry.Len(), Connections: n})
}

// handle processes one inbound text message and returns the reply for the
// sender. It never blocks on another connection.
func (s *Server) handle(c *conn, data []byte) signaling.Message {
	msg, err := signaling.Unmarshal(data)
	if err != nil {
		c.log.Debugf("undecodable message (%d bytes): %v", len(data), err)
		return s.reject(c, "unknown", "format", msgInvalidFormat)
	}
	typ := string(msg.Type())
	s.metrics.MessageReceived(typ, len(data))

	switch m := msg.(type) {
	case signaling.Register:
		return s.handleRegister(c, m)
	case signaling.Join:
		return s.handleJoin(c, m)
	case signaling.Offer, signaling.Answer, signaling.IceCandidate:
		return s.forward(c, msg)
	case signaling.Disconnect:
		return s.handleDisconnect(c, m)
	case signaling.Success, signaling.Error:
		return s.reject(c, typ, "type", msgInvalidType)
	}
	return s.reject(c, typ, "type", msgInvalidType)
}

func (s *Server) handleRegister(c *conn, m signaling.Register) signaling.Message {
	key, err := session.ParseKey(m.SessionID)
	if err != nil {
		return s.reject(c, string(m.Type()), "session_id", msgInvalidSessionID)
	}

	prev, replaced := s.registry.Register(key, c)
	c.track(key.String())
	s.metrics.SessionRegistered()
	if replaced {
		s.metrics.SessionRemoved("replaced")
		c.log.WithField("session", key.String()).Warn("session re-registered, previous host replaced")
		if prev.Host != nil && prev.Host != Endpoint(c) {
			_ = prev.Host.Send(signaling.Disconnect{SessionID: key.String(), Reason: reasonReplacedHost})
		}
		if prev.Client != nil && prev.Client != Endpoint(c) {
			_ = prev.Client.Send(signaling.Disconnect{SessionID: key.String(), Reason: reasonReplacedHost})
		}
	} else {
		c.log.WithField("session", key.String()).Info("session registered")
	}
	return signaling.Success{Message: "Session " + key.String() + " registered"}
}

func (s *Server) handleJoin(c *conn, m signaling.Join) signaling.Message {
	typ := string(m.Type())
	if err := s.joins.Allow(remoteHost(c.remote)); err != nil {
		c.log.Warn("join rate limit exceeded")
		return s.reject(c, typ, "rate_limited", msgTooManyJoins)
	}
	key, err := session.ParseKey(m.SessionID)
	if err != nil {
		return s.reject(c, typ, "session_id", msgInvalidSessionID)
	}

	sess, prev, err := s.registry.Join(key, c)
	if err != nil {
		return s.lookupFailure(c, typ, err)
	}
	c.track(sess.Key.String())
	s.metrics.SessionJoined()
	c.log.WithField("session", sess.Key.String()).Info("client joined")
	if prev != nil && prev != Endpoint(c) {
		_ = prev.Send(signaling.Disconnect{SessionID: sess.Key.String(), Reason: reasonReplacedClient})
	}
	return signaling.Success{Message: "Joined session " + sess.Key.String()}
}

// forward relays an offer, answer or ICE candidate to the other side. The
// payload is re-encoded from the decoded message with its fields untouched.
func (s *Server) forward(c *conn, msg signaling.Message) signaling.Message {
	typ := string(msg.Type())
	id, _ := signaling.SessionOf(msg)
	key, err := session.ParseKey(id)
	if err != nil {
		return s.reject(c, typ, "session_id", msgInvalidSessionID)
	}

	sess, peer, err := s.registry.Route(key, c)
	if err != nil {
		return s.lookupFailure(c, typ, err)
	}
	if err := peer.Send(msg); err != nil {
		return s.reject(c, typ, "peer_gone", msgPeerNotConnected)
	}
	s.metrics.MessageForwarded(typ)
	role, _ := sess.RoleOf(c)
	c.log.WithFields(log.Fields{"session": sess.Key.String(), "from": role.String()}).Debugf("forwarded %s", typ)
	return signaling.Success{Message: msgForwarded}
}

func (s *Server) handleDisconnect(c *conn, m signaling.Disconnect) signaling.Message {
	typ := string(m.Type())
	key, err := session.ParseKey(m.SessionID)
	if err != nil {
		return s.reject(c, typ, "session_id", msgInvalidSessionID)
	}
	d, err := s.registry.Leave(key, c)
	if err != nil {
		return s.lookupFailure(c, typ, err)
	}
	c.untrack(d.Session.Key.String())
	s.notifyDeparture(d, "disconnect")
	return signaling.Success{Message: "Left session " + d.Session.Key.String()}
}

// dropConn runs disconnect cleanup for every session c took part in.
func (s *Server) dropConn(c *conn) {
	for _, id := range c.tracked() {
		if d, ok := s.registry.Drop(id, c); ok {
			s.notifyDeparture(d, "connection_lost")
		}
	}
}

// notifyDeparture tells the remaining side that its peer left. The registry
// lock has been released by the time this runs.
func (s *Server) notifyDeparture(d Departure, cause string) {
	id := d.Session.Key.String()
	reason := reasonClientLeft
	if d.Role == domain.RoleHost {
		reason = reasonHostLeft
		s.metrics.SessionRemoved(cause)
		log.WithFields(log.Fields{"session": id, "cause": cause}).Info("session closed")
	} else {
		log.WithFields(log.Fields{"session": id, "cause": cause}).Debug("client left")
	}
	if rest := d.Remaining(); rest != nil {
		_ = rest.Send(signaling.Disconnect{SessionID: id, Reason: reason})
	}
}

func (s *Server) lookupFailure(c *conn, typ string, err error) signaling.Message {
	switch {
	case errors.Is(err, domain.ErrAmbiguousSessionCode):
		return s.reject(c, typ, "ambiguous", msgAmbiguousCode)
	case errors.Is(err, ErrNotParticipant):
		return s.reject(c, typ, "not_participant", msgNotParticipant)
	case errors.Is(err, ErrPeerNotConnected):
		return s.reject(c, typ, "peer_missing", msgPeerNotConnected)
	}
	return s.reject(c, typ, "not_found", msgSessionNotFound)
}

func (s *Server) reject(c *conn, typ, reason, text string) signaling.Message {
	s.metrics.MessageRejected(typ, reason)
	c.log.WithField("type", typ).Debugf("rejected: %s", text)
	return signaling.Error{Message: text}
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
