package server

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"adaremote/internal/domain"
	"adaremote/internal/protocol/signaling"
	"adaremote/internal/session"
)

var (
	// ErrNotParticipant is returned when an endpoint acts on a session it is
	// neither host nor client of.
	ErrNotParticipant = fmt.Errorf("%w: not a participant in session", domain.ErrSession)
	// ErrPeerNotConnected is returned when forwarding to a side that has no
	// endpoint.
	ErrPeerNotConnected = fmt.Errorf("%w: peer not connected", domain.ErrSession)
)

// Endpoint is one connected peer as seen by the registry.
type Endpoint interface {
	ID() string
	// Send enqueues m without blocking.
	Send(m signaling.Message) error
	// Done is closed once the endpoint's connection is gone.
	Done() <-chan struct{}
}

// Session is a point-in-time copy of a registry entry. Holding one never
// keeps the registry locked.
type Session struct {
	Key     session.Key
	Host    Endpoint
	Client  Endpoint
	Created time.Time
}

// Peer returns the side of s that is not ep, and whether ep participates.
func (s Session) Peer(ep Endpoint) (Endpoint, bool) {
	switch {
	case s.Host != nil && s.Host == ep:
		return s.Client, true
	case s.Client != nil && s.Client == ep:
		return s.Host, true
	}
	return nil, false
}

// RoleOf reports which side ep is on.
func (s Session) RoleOf(ep Endpoint) (domain.Role, bool) {
	switch {
	case s.Host != nil && s.Host == ep:
		return domain.RoleHost, true
	case s.Client != nil && s.Client == ep:
		return domain.RoleClient, true
	}
	return 0, false
}

// Departure describes an endpoint leaving a session. When Role is the host
// the session has been removed; when it is the client the session is back
// to waiting for a client.
type Departure struct {
	Session Session
	Role    domain.Role
}

// Remaining returns the endpoint that is still attached, if any.
func (d Departure) Remaining() Endpoint {
	if d.Role == domain.RoleHost {
		return d.Session.Client
	}
	return d.Session.Host
}

type entry struct {
	key     session.Key
	host    Endpoint
	client  Endpoint
	created time.Time
}

func (e *entry) snapshot() Session {
	return Session{Key: e.key, Host: e.host, Client: e.client, Created: e.created}
}

// Registry maps session keys to sessions. Reads share the lock; every
// mutation holds it exclusively for the map update only, so an operation
// is visible to every call that starts after it returns.
//
// Entries are keyed by the canonical session id, or by the bare code when a
// host registered only a code. codes indexes full ids by their display code
// so a client may join by code.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	codes    map[string]map[string]struct{}
	now      func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		codes:    make(map[string]map[string]struct{}),
		now:      time.Now,
	}
}

// Register creates the session for key with host attached and no client.
// An existing session under the same key is overwritten and returned.
func (r *Registry) Register(key session.Key, host Endpoint) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prev Session
	old, replaced := r.sessions[key.String()]
	if replaced {
		prev = old.snapshot()
	}
	r.sessions[key.String()] = &entry{key: key, host: host, created: r.now()}
	if key.IsFull() {
		set := r.codes[key.Code()]
		if set == nil {
			set = make(map[string]struct{})
			r.codes[key.Code()] = set
		}
		set[key.String()] = struct{}{}
	}
	return prev, replaced
}

// Join attaches client to the session key resolves to. A client already
// attached is replaced and returned.
func (r *Registry) Join(key session.Key, client Endpoint) (Session, Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.resolve(key, nil)
	if err != nil {
		return Session{}, nil, err
	}
	prev := e.client
	e.client = client
	return e.snapshot(), prev, nil
}

// Lookup returns the session key resolves to.
func (r *Registry) Lookup(key session.Key) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.resolve(key, nil)
	if err != nil {
		return Session{}, err
	}
	return e.snapshot(), nil
}

// Route returns the session sender participates in under key, and the
// other side to forward to.
func (r *Registry) Route(key session.Key, sender Endpoint) (Session, Endpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.resolve(key, sender)
	if err != nil {
		return Session{}, nil, err
	}
	s := e.snapshot()
	peer, _ := s.Peer(sender)
	if peer == nil {
		return s, nil, ErrPeerNotConnected
	}
	return s, peer, nil
}

// Leave detaches ep from the session key resolves to. A departing host
// removes the session.
func (r *Registry) Leave(key session.Key, ep Endpoint) (Departure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.resolve(key, ep)
	if err != nil {
		return Departure{}, err
	}
	d, _ := r.detach(e, ep)
	return d, nil
}

// Drop detaches ep from the session stored under the exact registry key
// id. It reports false when ep is no longer part of that session, which is
// the case after the session was re-registered by another host.
func (r *Registry) Drop(id string, ep Endpoint) (Departure, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return Departure{}, false
	}
	return r.detach(e, ep)
}

// Sweep detaches every endpoint whose connection is gone.
func (r *Registry) Sweep() []Departure {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Departure
	for _, e := range r.sessions {
		if e.client != nil && closed(e.client) {
			d, _ := r.detach(e, e.client)
			out = append(out, d)
		}
		if closed(e.host) {
			d, _ := r.detach(e, e.host)
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sessions returns a snapshot of every session ordered by creation time.
func (r *Registry) Sessions() []Session {
	r.mu.RLock()
	out := make([]Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.snapshot())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out
}

// resolve finds the entry for key. A code may match several sessions; when
// participant is set only sessions it takes part in are considered. Callers
// hold r.mu.
func (r *Registry) resolve(key session.Key, participant Endpoint) (*entry, error) {
	if key.IsZero() {
		return nil, domain.ErrSessionNotFound
	}
	var candidates []*entry
	if e, ok := r.sessions[key.String()]; ok {
		candidates = append(candidates, e)
	}
	if !key.IsFull() {
		for id := range r.codes[key.Code()] {
			if e, ok := r.sessions[id]; ok {
				candidates = append(candidates, e)
			}
		}
	}

	if participant != nil {
		mine := candidates[:0:0]
		for _, e := range candidates {
			if e.host == participant || e.client == participant {
				mine = append(mine, e)
			}
		}
		if len(mine) == 0 && len(candidates) > 0 {
			return nil, ErrNotParticipant
		}
		candidates = mine
	}

	switch len(candidates) {
	case 0:
		return nil, domain.ErrSessionNotFound
	case 1:
		return candidates[0], nil
	}
	return nil, domain.ErrAmbiguousSessionCode
}

// detach removes ep from e. Callers hold r.mu for writing.
func (r *Registry) detach(e *entry, ep Endpoint) (Departure, bool) {
	switch {
	case ep != nil && e.host == ep:
		d := Departure{Session: e.snapshot(), Role: domain.RoleHost}
		r.remove(e)
		return d, true
	case ep != nil && e.client == ep:
		d := Departure{Session: e.snapshot(), Role: domain.RoleClient}
		e.client = nil
		return d, true
	}
	return Departure{}, false
}

func (r *Registry) remove(e *entry) {
	id := e.key.String()
	if cur, ok := r.sessions[id]; !ok || cur != e {
		return
	}
	delete(r.sessions, id)
	if e.key.IsFull() {
		if set := r.codes[e.key.Code()]; set != nil {
			delete(set, id)
			if len(set) == 0 {
				delete(r.codes, e.key.Code())
			}
		}
	}
}

func closed(ep Endpoint) bool {
	if ep == nil {
		return false
	}
	select {
	case <-ep.Done():
		return true
	default:
		return false
	}
}
