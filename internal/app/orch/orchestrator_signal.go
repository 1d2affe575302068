package orch

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const MaxChatLen = 2000

func (o *Orchestrator) requestShare(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if !sess.InRoom() {
		return errorTo(from, core.ErrCodeNotInRoom)
	}
	if ev.TargetID == "" {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	return unicast(ev.TargetID, core.PeerMsg{
		Type:        core.MsgShareRequestReceived,
		RequesterID: from,
		Username:    sess.DisplayName,
	})
}

func (o *Orchestrator) rejectShare(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if ev.RequesterID == "" {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	return unicast(ev.RequesterID, core.PeerMsg{
		Type:     core.MsgShareRejected,
		FromID:   from,
		Username: sess.DisplayName,
	})
}

func (o *Orchestrator) stopSharing(from domain.ConnID, sess core.Session) []core.Outbound {
	if !sess.InRoom() {
		return errorTo(from, core.ErrCodeNotInRoom)
	}
	outs := o.roomcast(sess.RoomCode, from, core.PeerMsg{
		Type:     core.MsgSharingStopped,
		FromID:   from,
		Username: sess.DisplayName,
	})
	return append(outs, o.roomUsers(sess.RoomCode)...)
}

func (o *Orchestrator) requestControl(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if ev.TargetID == "" {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	return unicast(ev.TargetID, core.PeerMsg{
		Type:        core.MsgControlRequestReceived,
		RequesterID: from,
		Username:    sess.DisplayName,
	})
}

func (o *Orchestrator) acceptControl(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if ev.RequesterID == "" {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	return unicast(ev.RequesterID, core.PeerMsg{
		Type:     core.MsgControlAccepted,
		FromID:   from,
		Username: sess.DisplayName,
	})
}

func (o *Orchestrator) rejectControl(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if ev.RequesterID == "" {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	return unicast(ev.RequesterID, core.PeerMsg{
		Type:     core.MsgControlRejected,
		FromID:   from,
		Username: sess.DisplayName,
	})
}

// relayOffer forwards the offer to its target and tells the rest of the room
// that the sender started sharing.
func (o *Orchestrator) relayOffer(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if ev.ToID == "" || !validDescription(ev.Offer, webrtc.SDPTypeOffer) {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	log.Debug().Str("module", "orch").Str("from", string(from)).Str("to", string(ev.ToID)).Msg("relay offer")
	outs := unicast(ev.ToID, core.SignalMsg{Type: core.EvWebRTCOffer, FromID: from, Offer: ev.Offer})
	if !sess.InRoom() {
		return outs
	}
	notice := core.PeerMsg{Type: core.MsgSharerStarted, FromID: from, Username: sess.DisplayName}
	for _, out := range o.roomcast(sess.RoomCode, from, notice) {
		if out.To != ev.ToID {
			outs = append(outs, out)
		}
	}
	return outs
}

func (o *Orchestrator) relayAnswer(from domain.ConnID, ev core.Event) []core.Outbound {
	if ev.ToID == "" || !validDescription(ev.Answer, webrtc.SDPTypeAnswer, webrtc.SDPTypePranswer) {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	log.Debug().Str("module", "orch").Str("from", string(from)).Str("to", string(ev.ToID)).Msg("relay answer")
	return unicast(ev.ToID, core.SignalMsg{Type: core.EvWebRTCAnswer, FromID: from, Answer: ev.Answer})
}

func (o *Orchestrator) relayCandidate(from domain.ConnID, ev core.Event) []core.Outbound {
	if ev.ToID == "" || !validCandidate(ev.Candidate) {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	return unicast(ev.ToID, core.SignalMsg{Type: core.EvWebRTCCandidate, FromID: from, Candidate: ev.Candidate})
}

func (o *Orchestrator) chat(from domain.ConnID, sess core.Session, ev core.Event) []core.Outbound {
	if !sess.InRoom() {
		return errorTo(from, core.ErrCodeNotInRoom)
	}
	if strings.TrimSpace(ev.Message) == "" || utf8.RuneCountInString(ev.Message) > MaxChatLen {
		return errorTo(from, core.ErrCodeBadPayload)
	}
	return o.roomcast(sess.RoomCode, "", core.ChatMsg{
		Type:     core.MsgChat,
		FromID:   from,
		Username: sess.DisplayName,
		Message:  ev.Message,
		SentAt:   o.Now().UnixMilli(),
	})
}

// validDescription checks the shape only; the SDP body is never parsed.
func validDescription(raw json.RawMessage, allowed ...webrtc.SDPType) bool {
	if len(raw) == 0 {
		return false
	}
	var desc webrtc.SessionDescription
	if err := json.Unmarshal(raw, &desc); err != nil {
		return false
	}
	if desc.SDP == "" {
		return false
	}
	for _, t := range allowed {
		if desc.Type == t {
			return true
		}
	}
	return false
}

// validCandidate accepts null and empty candidates, which browsers send
// to mark the end of gathering.
func validCandidate(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var cand webrtc.ICECandidateInit
	return json.Unmarshal(raw, &cand) == nil
}
