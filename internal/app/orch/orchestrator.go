// Package orch routes inbound signaling events to room mutations and
// outbound deliveries.
package orch

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/ShareRoom/internal/app"
	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the event router. Every handler runs under one mutex, so a
// handler's mutations and sends are never interleaved with another event's.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomStore
	Policy   app.Policy
	Now      func() time.Time

	mu sync.Mutex
}

func New(reg *app.Registry, rooms core.RoomStore, policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Policy:   policy,
		Now:      time.Now,
	}
}

// Dispatch handles one inbound event from conn id and delivers the result.
func (o *Orchestrator) Dispatch(from domain.ConnID, ev core.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliver(o.handle(from, ev))
}

// Reply sends msg to a single connection, serialized with event handling.
func (o *Orchestrator) Reply(to domain.ConnID, msg any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliver(unicast(to, msg))
}

func (o *Orchestrator) handle(from domain.ConnID, ev core.Event) []core.Outbound {
	sess, ok := o.Registry.Session(from)
	if !ok {
		log.Warn().Str("module", "orch").Str("conn", string(from)).Str("type", ev.Type).Msg("event from unregistered connection")
		return nil
	}

	switch ev.Type {
	case core.EvCreateRoom:
		return o.createRoom(from, sess, ev)
	case core.EvJoinRoom:
		return o.joinRoom(from, sess, ev)
	case core.EvLeaveRoom:
		return o.leaveRoom(from, sess)
	case core.EvRequestShare:
		return o.requestShare(from, sess, ev)
	case core.EvRejectShare:
		return o.rejectShare(from, sess, ev)
	case core.EvStopSharing:
		return o.stopSharing(from, sess)
	case core.EvRequestControl:
		return o.requestControl(from, sess, ev)
	case core.EvAcceptControl:
		return o.acceptControl(from, sess, ev)
	case core.EvRejectControl:
		return o.rejectControl(from, sess, ev)
	case core.EvWebRTCOffer:
		return o.relayOffer(from, sess, ev)
	case core.EvWebRTCAnswer:
		return o.relayAnswer(from, ev)
	case core.EvWebRTCCandidate:
		return o.relayCandidate(from, ev)
	case core.EvSendChat:
		return o.chat(from, sess, ev)
	case core.EvRename:
		return o.rename(from, sess, ev)
	case core.EvWhoAmI:
		return o.whoAmI(from, sess)
	case core.EvPing:
		return unicast(from, core.TypeOnlyMsg{Type: core.MsgPong})
	default:
		log.Warn().Str("module", "orch").Str("conn", string(from)).Str("type", ev.Type).Msg("unknown event")
		return errorTo(from, core.ErrCodeUnknownEvent)
	}
}

func unicast(to domain.ConnID, msg any) []core.Outbound {
	return []core.Outbound{{To: to, Msg: msg}}
}

func errorTo(to domain.ConnID, code string) []core.Outbound {
	return unicast(to, core.ErrorMsg{Type: core.MsgError, Error: code})
}

// roomcast addresses msg to every member of code except the given id.
// An empty except reaches the whole room.
func (o *Orchestrator) roomcast(code domain.RoomCode, except domain.ConnID, msg any) []core.Outbound {
	members, err := o.Rooms.Members(code)
	if err != nil {
		return nil
	}
	out := make([]core.Outbound, 0, len(members))
	for _, m := range members {
		if m.ConnID == except {
			continue
		}
		out = append(out, core.Outbound{To: m.ConnID, Msg: msg})
	}
	return out
}

func (o *Orchestrator) roomUsers(code domain.RoomCode) []core.Outbound {
	members, err := o.Rooms.Members(code)
	if err != nil {
		return nil
	}
	return o.roomcast(code, "", core.RoomUsersMsg{
		Type:     core.MsgRoomUsers,
		RoomCode: code,
		Users:    core.MembersDTO(members),
	})
}

// deliver is fire-and-forget. Unknown targets are dropped silently.
func (o *Orchestrator) deliver(outs []core.Outbound) {
	for _, out := range outs {
		conn, ok := o.Registry.Conn(out.To)
		if !ok {
			log.Debug().Str("module", "orch").Str("to", string(out.To)).Msg("drop message for unknown connection")
			continue
		}
		data, err := json.Marshal(out.Msg)
		if err != nil {
			log.Error().Err(err).Str("module", "orch").Msg("marshal outbound")
			continue
		}
		err = conn.TrySend(data)
		switch {
		case err == nil:
		case errors.Is(err, core.ErrBackpressure):
			o.onBackPressure(out.To, conn)
		default:
			log.Debug().Err(err).Str("module", "orch").Str("to", string(out.To)).Msg("send failed")
		}
	}
}

func (o *Orchestrator) onBackPressure(id domain.ConnID, conn core.SignalConnection) {
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(id) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("conn", string(id)).Msg("slow client, closing connection")
		conn.Close()
	case app.DropFrame:
		log.Warn().Str("module", "orch").Str("conn", string(id)).Msg("slow client, frame dropped")
	case app.NoAction:
	}
}
