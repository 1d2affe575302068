package signal

import (
	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
)

// limitedEvents are the events a single connection can use to flood a room
// or the store.
var limitedEvents = map[string]bool{
	core.EvSendChat:       true,
	core.EvCreateRoom:     true,
	core.EvJoinRoom:       true,
	core.EvRequestShare:   true,
	core.EvRequestControl: true,
}

func (ctl *SignalWSController) allow(id domain.ConnID, eventType string) bool {
	if ctl.Limiter == nil || !limitedEvents[eventType] {
		return true
	}
	return ctl.Limiter.Allow(id)
}
