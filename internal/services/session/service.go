package session

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"adaremote/internal/crypto"
	"adaremote/internal/domain"
	"adaremote/internal/domain/types"
	"adaremote/internal/protocol/handshake"
	"adaremote/internal/protocol/message"
	"adaremote/internal/protocol/signaling"
	"adaremote/internal/ratelimit"
	"adaremote/internal/session"
)

// Rejection reasons carried in SessionResponse.
const (
	ReasonInvalidPassword = "Invalid password"
	ReasonTooManyAttempts = "Too many password attempts"
	ReasonModeNotAllowed  = "Connection mode not allowed"
	ReasonWrongSession    = "Session mismatch"
)

// reasonReplaced is the relay's disconnect reason for a host whose session
// was taken over by another registration.
const reasonReplaced = "Session registered by another host"

// ErrRejected is returned to a client whose session request the host
// declined for a reason other than the password.
var ErrRejected = fmt.Errorf("%w: session request rejected", domain.ErrSession)

// Service drives the host and client sides of session establishment.
//
// It handles:
//   - Registering a host's session and answering join attempts.
//   - Joining a session and running the key exchange as the client.
//   - Verifying session passwords, throttled per session.
//   - Persisting the established session as the current one.
type Service struct {
	relay    domain.SignalingClient
	store    domain.SessionStore
	attempts *ratelimit.Limiter
}

// New constructs a Service. store and attempts may be nil.
func New(relay domain.SignalingClient, store domain.SessionStore, attempts *ratelimit.Limiter) *Service {
	return &Service{relay: relay, store: store, attempts: attempts}
}

// NewConfig creates the SessionConfig a host starts with. An empty password
// leaves the session unprotected.
func NewConfig(mode domain.ConnectionMode, password string, quality domain.VideoQuality, clipboard bool) (domain.SessionConfig, error) {
	if !mode.Valid() {
		return domain.SessionConfig{}, fmt.Errorf("%w: unknown connection mode %q", domain.ErrParse, mode)
	}
	if _, err := types.ParseVideoQuality(string(quality)); err != nil {
		return domain.SessionConfig{}, err
	}
	id, err := session.Generate()
	if err != nil {
		return domain.SessionConfig{}, err
	}
	cfg := domain.SessionConfig{
		SessionID:     id,
		Mode:          mode,
		ClipboardSync: clipboard,
		Quality:       quality,
	}
	if password != "" {
		if cfg.PasswordHash, err = crypto.HashPassword(password); err != nil {
			return domain.SessionConfig{}, err
		}
	}
	return cfg, nil
}

// Register announces cfg's session on the relay.
func (s *Service) Register(ctx context.Context, cfg domain.SessionConfig) error {
	_, err := s.relay.Request(ctx, signaling.Register{SessionID: cfg.SessionID.String()})
	if err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	log.WithField("code", cfg.SessionID.Code()).Info("session registered")
	return nil
}

// Host registers cfg and serves join attempts until a client is established.
func (s *Service) Host(ctx context.Context, cfg domain.SessionConfig) (*handshake.Established, error) {
	if err := s.Register(ctx, cfg); err != nil {
		return nil, err
	}
	return s.Serve(ctx, cfg)
}

// hostAttempt is the state of one client's handshake with the host.
type hostAttempt struct {
	keys *handshake.Keys
}

// discard drops the keys of an attempt that will not complete.
func (a *hostAttempt) discard() {
	if a != nil {
		a.keys.Discard()
	}
}

// Serve answers join attempts for a registered session until one client
// completes the handshake, then returns the established session. Clients
// that fail authentication are answered and forgotten; Serve keeps waiting.
func (s *Service) Serve(ctx context.Context, cfg domain.SessionConfig) (*handshake.Established, error) {
	id := cfg.SessionID.String()
	var attempt *hostAttempt

	for {
		m, err := s.next(ctx)
		if err != nil {
			return nil, err
		}
		switch m := m.(type) {
		case signaling.Offer:
			p, err := handshake.Decode(m.SDP)
			if err != nil {
				log.Debugf("ignoring offer: %v", err)
				continue
			}
			switch {
			case p.PublicKey != nil:
				attempt.discard()
				attempt, err = s.answerKey(ctx, cfg, *p.PublicKey)
				if err != nil {
					return nil, err
				}
			case p.Sealed != nil && attempt != nil:
				est, err := s.answerRequest(ctx, cfg, attempt, *p.Sealed)
				if est == nil {
					attempt.discard()
				}
				attempt = nil
				if err != nil {
					return nil, err
				}
				if est != nil {
					s.save(cfg)
					return est, nil
				}
			default:
				log.Debug("ignoring offer without an active key exchange")
			}
		case signaling.Disconnect:
			if m.Reason == reasonReplaced {
				return nil, fmt.Errorf("%w: %s", domain.ErrSession, m.Reason)
			}
			log.WithField("session", id).Info("client left before the session was established")
			attempt.discard()
			attempt = nil
		default:
			log.Debugf("ignoring %s while waiting for a client", m.Type())
		}
	}
}

func (s *Service) answerKey(ctx context.Context, cfg domain.SessionConfig, peer crypto.PublicKey) (*hostAttempt, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	keys, err := handshake.Derive(kp, peer, cfg.SessionID, domain.RoleHost)
	if err != nil {
		// an unusable client key ends this attempt only
		log.Warnf("key exchange failed: %v", err)
		return nil, nil
	}
	pub := kp.PublicKey()
	sdp, err := handshake.Encode(handshake.Payload{PublicKey: &pub, SessionID: cfg.SessionID.String()})
	if err != nil {
		return nil, err
	}
	if _, err := s.relay.Request(ctx, signaling.Answer{SessionID: cfg.SessionID.String(), SDP: sdp}); err != nil {
		return nil, fmt.Errorf("answer key exchange: %w", err)
	}
	return &hostAttempt{keys: keys}, nil
}

// answerRequest opens the client's SessionRequest, decides, and replies.
// It returns a nil Established when the client was turned away.
func (s *Service) answerRequest(ctx context.Context, cfg domain.SessionConfig, a *hostAttempt, f message.Frame) (*handshake.Established, error) {
	m, err := a.keys.Sealer.Open(f)
	if err != nil {
		log.Warnf("dropping session request: %v", err)
		return nil, nil
	}
	req, ok := m.(message.SessionRequest)
	if !ok {
		log.Warnf("expected session_request, got %s", m.Type())
		return nil, nil
	}

	resp := s.decide(cfg, req)
	frame, err := a.keys.Sealer.Seal(resp)
	if err != nil {
		return nil, err
	}
	sdp, err := handshake.Encode(handshake.Payload{Sealed: &frame})
	if err != nil {
		return nil, err
	}
	if _, err := s.relay.Request(ctx, signaling.Answer{SessionID: cfg.SessionID.String(), SDP: sdp}); err != nil {
		return nil, fmt.Errorf("answer session request: %w", err)
	}
	if !resp.Accepted {
		log.WithField("reason", resp.Reason).Warn("session request rejected")
		return nil, nil
	}
	log.WithField("fingerprint", a.keys.Fingerprint).Info("session established")
	return &handshake.Established{
		SessionID:     cfg.SessionID,
		Mode:          req.Mode,
		ClipboardSync: cfg.ClipboardSync,
		Keys:          *a.keys,
	}, nil
}

func (s *Service) decide(cfg domain.SessionConfig, req message.SessionRequest) message.SessionResponse {
	if req.SessionID != cfg.SessionID {
		return message.SessionResponse{Reason: ReasonWrongSession}
	}
	if req.Mode != cfg.Mode && req.Mode != domain.ModeViewOnly {
		return message.SessionResponse{Reason: ReasonModeNotAllowed}
	}
	if cfg.HasPassword() {
		if err := s.attempts.Allow(cfg.SessionID.String()); err != nil {
			return message.SessionResponse{Reason: ReasonTooManyAttempts}
		}
		if !crypto.VerifyPassword(req.Password, cfg.PasswordHash) {
			return message.SessionResponse{Reason: ReasonInvalidPassword}
		}
	}
	return message.SessionResponse{Accepted: true}
}

// Connect joins the session named by text (a full id or a display code) and
// runs the client side of the handshake.
//
// Failures are distinguishable with errors.Is: domain.ErrSessionNotFound
// (retry entry), domain.ErrAuthenticationFailed (retry password) and
// domain.ErrDecryption (abort).
func (s *Service) Connect(ctx context.Context, text, password string, mode domain.ConnectionMode) (*handshake.Established, error) {
	key, err := session.ParseKey(text)
	if err != nil {
		return nil, err
	}
	if _, err := s.relay.Request(ctx, signaling.Join{SessionID: key.String()}); err != nil {
		return nil, fmt.Errorf("join session: %w", err)
	}

	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	defer kp.Discard()
	pub := kp.PublicKey()
	sdp, err := handshake.Encode(handshake.Payload{PublicKey: &pub})
	if err != nil {
		return nil, err
	}
	if _, err := s.relay.Request(ctx, signaling.Offer{SessionID: key.String(), SDP: sdp}); err != nil {
		return nil, fmt.Errorf("send key offer: %w", err)
	}

	p, err := s.awaitAnswer(ctx)
	if err != nil {
		return nil, err
	}
	if p.PublicKey == nil {
		return nil, fmt.Errorf("%w: host answer carries no public key", domain.ErrDecoding)
	}
	id, err := session.Parse(p.SessionID)
	if err != nil {
		return nil, fmt.Errorf("host answer: %w", err)
	}
	if !key.Matches(id) {
		return nil, fmt.Errorf("%w: host answered for session %s", domain.ErrSession, id)
	}
	keys, err := handshake.Derive(kp, *p.PublicKey, id, domain.RoleClient)
	if err != nil {
		return nil, err
	}

	frame, err := keys.Sealer.Seal(message.SessionRequest{SessionID: id, Password: password, Mode: mode})
	if err != nil {
		return nil, err
	}
	if sdp, err = handshake.Encode(handshake.Payload{Sealed: &frame}); err != nil {
		return nil, err
	}
	if _, err := s.relay.Request(ctx, signaling.Offer{SessionID: key.String(), SDP: sdp}); err != nil {
		return nil, fmt.Errorf("send session request: %w", err)
	}

	p, err = s.awaitAnswer(ctx)
	if err != nil {
		return nil, err
	}
	if p.Sealed == nil {
		return nil, fmt.Errorf("%w: expected a sealed session response", domain.ErrDecoding)
	}
	m, err := keys.Sealer.Open(*p.Sealed)
	if err != nil {
		return nil, err
	}
	resp, ok := m.(message.SessionResponse)
	if !ok {
		return nil, fmt.Errorf("%w: expected session_response, got %s", domain.ErrDecoding, m.Type())
	}
	if !resp.Accepted {
		if resp.Reason == ReasonInvalidPassword || resp.Reason == ReasonTooManyAttempts {
			return nil, fmt.Errorf("%w: %s", domain.ErrAuthenticationFailed, resp.Reason)
		}
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Reason)
	}

	s.save(domain.SessionConfig{SessionID: id, Mode: mode, Quality: domain.QualityAdaptive})
	return &handshake.Established{SessionID: id, Mode: mode, Keys: *keys}, nil
}

// Leave tells the relay this side is done with the session and forgets the
// stored current session.
func (s *Service) Leave(ctx context.Context, id domain.SessionID, reason string) error {
	_, err := s.relay.Request(ctx, signaling.Disconnect{SessionID: id.String(), Reason: reason})
	if s.store != nil {
		if cerr := s.store.ClearCurrentSession(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Current returns the stored current session, if any.
func (s *Service) Current() (domain.SessionConfig, bool, error) {
	if s.store == nil {
		return domain.SessionConfig{}, false, nil
	}
	return s.store.LoadCurrentSession()
}

func (s *Service) awaitAnswer(ctx context.Context) (handshake.Payload, error) {
	for {
		m, err := s.next(ctx)
		if err != nil {
			return handshake.Payload{}, err
		}
		switch m := m.(type) {
		case signaling.Answer:
			return handshake.Decode(m.SDP)
		case signaling.Disconnect:
			return handshake.Payload{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, m.Reason)
		default:
			log.Debugf("ignoring %s during handshake", m.Type())
		}
	}
}

func (s *Service) next(ctx context.Context) (signaling.Message, error) {
	select {
	case m, ok := <-s.relay.Pushes():
		if !ok {
			return nil, fmt.Errorf("%w: relay connection closed", domain.ErrNetwork)
		}
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) save(cfg domain.SessionConfig) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveCurrentSession(cfg); err != nil {
		log.Warnf("saving current session: %v", err)
	}
}

// IsRetryable reports whether err is a failure the user can fix by entering
// a different code or password.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrAmbiguousSessionCode) ||
		errors.Is(err, domain.ErrAuthenticationFailed)
}

// ErrNotPermitted marks a message the session's connection mode does not
// allow.
var ErrNotPermitted = fmt.Errorf("%w: message not permitted in this connection mode", domain.ErrSession)

// Open unseals a frame from the peer and checks it against the session's
// connection mode.
func Open(est *handshake.Established, f message.Frame) (message.Message, error) {
	m, err := est.Sealer.Open(f)
	if err != nil {
		return nil, err
	}
	if !message.Permits(est.Mode, m) {
		return nil, fmt.Errorf("%w: %s under %s", ErrNotPermitted, m.Type(), est.Mode)
	}
	return m, nil
}

// Send seals m and relays it to the peer. The host sends answers and the
// client sends offers, matching the handshake.
func (s *Service) Send(ctx context.Context, est *handshake.Established, m message.Message) error {
	if !message.Permits(est.Mode, m) {
		return fmt.Errorf("%w: %s under %s", ErrNotPermitted, m.Type(), est.Mode)
	}
	frame, err := est.Sealer.Seal(m)
	if err != nil {
		return err
	}
	sdp, err := handshake.Encode(handshake.Payload{Sealed: &frame})
	if err != nil {
		return err
	}
	id := est.SessionID.String()
	var out signaling.Message = signaling.Offer{SessionID: id, SDP: sdp}
	if est.Sealer.Role() == domain.RoleHost {
		out = signaling.Answer{SessionID: id, SDP: sdp}
	}
	if _, err := s.relay.Request(ctx, out); err != nil {
		return fmt.Errorf("send %s: %w", m.Type(), err)
	}
	return nil
}

// Hold relays sealed messages for an established session until the peer
// leaves or ctx ends, handing each permitted message to deliver (which may
// be nil). Messages the mode does not allow and stale frames are dropped.
// It returns nil when the peer leaves and domain.ErrDecryption when a frame
// fails authentication.
func (s *Service) Hold(ctx context.Context, est *handshake.Established, deliver func(message.Message)) error {
	for {
		m, err := s.next(ctx)
		if err != nil {
			return err
		}
		var sdp string
		switch m := m.(type) {
		case signaling.Offer:
			sdp = m.SDP
		case signaling.Answer:
			sdp = m.SDP
		case signaling.Disconnect:
			log.WithField("reason", m.Reason).Info("peer left the session")
			return nil
		default:
			continue
		}

		p, err := handshake.Decode(sdp)
		if err != nil || p.Sealed == nil {
			log.Debug("ignoring unsealed negotiation message")
			continue
		}
		pm, err := Open(est, *p.Sealed)
		switch {
		case errors.Is(err, ErrNotPermitted), errors.Is(err, domain.ErrReplay):
			log.Warnf("dropping peer message: %v", err)
			continue
		case err != nil:
			return err
		}
		if d, ok := pm.(message.Disconnect); ok {
			log.WithField("reason", d.Reason).Info("peer closed the session")
			return nil
		}
		if deliver != nil {
			deliver(pm)
		}
	}
}
