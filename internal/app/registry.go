package app

import (
	"sync"

	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Session core.Session
	Conn    core.SignalConnection
}

// Registry maps connection ids to their session metadata and transport endpoint.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.ConnID]*sessionEntry),
	}
}

// Register creates empty session metadata for a new connection.
// Registering an id twice replaces the endpoint and keeps the session.
func (r *Registry) Register(id domain.ConnID, conn core.SignalConnection, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.Conn = conn
		return
	}
	r.sessions[id] = &sessionEntry{
		Session: core.Session{DisplayName: name},
		Conn:    conn,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("registered connection")
}

func (r *Registry) Session(id domain.ConnID) (core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok {
		return e.Session, true
	}
	return core.Session{}, false
}

func (r *Registry) Conn(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok && e.Conn != nil {
		return e.Conn, true
	}
	return nil, false
}

// SetSession is idempotent. It reports false for unknown ids.
func (r *Registry) SetSession(id domain.ConnID, code domain.RoomCode, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return false
	}
	e.Session = core.Session{RoomCode: code, DisplayName: name}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(code)).Str("username", name).Msg("updated session")
	return true
}

func (r *Registry) SetName(id domain.ConnID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return false
	}
	e.Session.DisplayName = name
	return true
}

func (r *Registry) ClearRoom(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.Session.RoomCode = ""
		log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("removed room association")
	}
}

// Remove erases the session and returns its last known state.
// A second call for the same id reports false.
func (r *Registry) Remove(id domain.ConnID) (core.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return core.Session{}, false
	}
	delete(r.sessions, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("removed connection")
	return e.Session, true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
