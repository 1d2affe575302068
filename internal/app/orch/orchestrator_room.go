package orch

import (
	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

// A connection already in a room leaves it before creating or joining another.
func (o *Orchestrator) createRoom(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	name := domain.NormalizeUsername(ev.Name(), sess.DisplayName)
	outs := o.leaveCurrent(from, sess)

	code, err := o.Rooms.CreateRoom(domain.NewMember(from, name))
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("conn", string(from)).Msg("create room")
		o.Registry.ClearRoom(from)
		return append(outs, errorTo(from, core.ErrCodeInternal)...)
	}
	o.Registry.SetSession(from, code, name)
	log.Info().Str("module", "orch").Str("conn", string(from)).Str("room", string(code)).Msg("room created")

	outs = append(outs, core.Outbound{To: from, Msg: core.RoomCodeMsg{Type: core.MsgRoomCreated, RoomCode: code}})
	return append(outs, o.roomUsers(code)...)
}

func (o *Orchestrator) joinRoom(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if ev.RoomCode == "" {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	code := domain.NormalizeRoomCode(ev.RoomCode)
	if !o.Rooms.Exists(code) {
		log.Info().Str("module", "orch").Str("conn", string(from)).Str("room", string(code)).Msg("join to unknown room")
		return invalidRoom(from, ev.RoomCode)
	}
	name := domain.NormalizeUsername(ev.Name(), sess.DisplayName)

	var outs []core.Outbound
	if sess.RoomCode == code {
		if err := o.Rooms.RenameMember(code, from, name); err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("conn", string(from)).Msg("rejoin rename")
		}
	} else {
		outs = o.leaveCurrent(from, sess)
		if err := o.Rooms.AddMember(code, domain.NewMember(from, name)); err != nil {
			o.Registry.ClearRoom(from)
			return append(outs, invalidRoom(from, ev.RoomCode)...)
		}
		outs = append(outs, o.roomcast(code, from, core.UserJoinedMsg{
			Type:     core.MsgUserJoined,
			ID:       from,
			Username: name,
		})...)
	}
	o.Registry.SetSession(from, code, name)
	log.Info().Str("module", "orch").Str("conn", string(from)).Str("room", string(code)).Msg("joined room")

	outs = append(outs, core.Outbound{To: from, Msg: core.RoomCodeMsg{Type: core.MsgRoomJoined, RoomCode: code}})
	return append(outs, o.roomUsers(code)...)
}

func invalidRoom(to domain.ConnID, raw string) []core.Outbound {
	return unicast(to, core.InvalidRoomMsg{
		Type:     core.MsgInvalidRoom,
		RoomCode: raw,
		Error:    core.ErrCodeInvalidRoom,
	})
}

func (o *Orchestrator) leaveRoom(from domain.ConnID, sess core.Session) []core.Outbound {
	if !sess.InRoom() {
		return errorTo(from, core.ErrCodeNotInRoom)
	}
	outs := o.leaveCurrent(from, sess)
	o.Registry.ClearRoom(from)
	return append(outs, core.Outbound{To: from, Msg: core.RoomCodeMsg{Type: core.MsgLeftRoom, RoomCode: sess.RoomCode}})
}

// leaveCurrent removes id from its room. If the room survives, the remaining
// members get the new member list and a sharing-stopped notice, since the
// departing member may have been the one sharing.
func (o *Orchestrator) leaveCurrent(id domain.ConnID, sess core.Session) []core.Outbound {
	if !sess.InRoom() {
		return nil
	}
	code := sess.RoomCode
	if _, err := o.Rooms.RemoveMember(code, id); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(id)).Str("room", string(code)).Msg("remove member")
	}
	if !o.Rooms.Exists(code) {
		return nil
	}
	outs := o.roomUsers(code)
	return append(outs, o.roomcast(code, id, core.PeerMsg{
		Type:     core.MsgSharingStopped,
		FromID:   id,
		Username: sess.DisplayName,
	})...)
}

func (o *Orchestrator) rename(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if err := domain.ValidateUsername(ev.Name()); err != nil {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	name := domain.NormalizeUsername(ev.Name(), sess.DisplayName)
	o.Registry.SetName(from, name)
	sess.DisplayName = name

	outs := o.whoAmI(from, sess)
	if !sess.InRoom() {
		return outs
	}
	if err := o.Rooms.RenameMember(sess.RoomCode, from, name); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(from)).Msg("rename member")
		return outs
	}
	return append(outs, o.roomUsers(sess.RoomCode)...)
}

func (o *Orchestrator) whoAmI(from domain.ConnID, sess core.Session) []core.Outbound {
	return unicast(from, core.WhoAmIMsg{
		Type:     core.MsgWhoAmI,
		ID:       from,
		Username: sess.DisplayName,
		RoomCode: sess.RoomCode,
	})
}
