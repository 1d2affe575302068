package orch

import (
	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

// OnConnect registers an empty session for a new connection.
func (o *Orchestrator) OnConnect(id domain.ConnID, conn core.SignalConnection, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Registry.Register(id, conn, domain.NormalizeUsername(name, domain.DefaultUsername))
	log.Info().Str("module", "orch").Str("conn", string(id)).Msg("connected")
}

// OnDisconnect runs room cleanup once per connection. Later calls, and calls
// for ids that were never registered, do nothing.
func (o *Orchestrator) OnDisconnect(id domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.Registry.Remove(id)
	if !ok {
		return
	}
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("room", string(sess.RoomCode)).Msg("disconnected")
	o.deliver(o.leaveCurrent(id, sess))
}
