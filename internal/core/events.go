package core

import (
	"encoding/json"

	"github.com/dkeye/ShareRoom/internal/domain"
)

// Inbound event names.
const (
	EvCreateRoom      = "create-room"
	EvJoinRoom        = "join-room"
	EvLeaveRoom       = "leave-room"
	EvRequestShare    = "request-share"
	EvRejectShare     = "reject-share"
	EvStopSharing     = "stop-sharing"
	EvRequestControl  = "request-control"
	EvAcceptControl   = "accept-control"
	EvRejectControl   = "reject-control"
	EvWebRTCOffer     = "webrtc-offer"
	EvWebRTCAnswer    = "webrtc-answer"
	EvWebRTCCandidate = "webrtc-candidate"
	EvSendChat        = "send-chat-message"
	EvRename          = "rename"
	EvWhoAmI          = "whoami"
	EvPing            = "ping"
)

// Outbound message types.
const (
	MsgRoomCreated            = "room-created"
	MsgRoomJoined             = "room-joined"
	MsgInvalidRoom            = "invalid-room"
	MsgUserJoined             = "user-joined"
	MsgRoomUsers              = "room-users"
	MsgLeftRoom               = "left-room"
	MsgShareRequestReceived   = "share-request-received"
	MsgShareRejected          = "share-rejected"
	MsgSharingStopped         = "sharing-stopped"
	MsgSharerStarted          = "sharer-started"
	MsgControlRequestReceived = "control-request-received"
	MsgControlAccepted        = "control-accepted"
	MsgControlRejected        = "control-rejected"
	MsgChat                   = "chat-message"
	MsgWhoAmI                 = "whoami"
	MsgPong                   = "pong"
	MsgError                  = "error"
)

// Client-visible error codes.
const (
	ErrCodeBadPayload   = "bad_payload"
	ErrCodeInvalidRoom  = "invalid_room_code"
	ErrCodeNotInRoom    = "not_in_room"
	ErrCodeRateLimited  = "rate_limited"
	ErrCodeUnknownEvent = "unknown_event"
	ErrCodeInternal     = "internal"
)

// Event is one decoded inbound frame. Only the fields relevant to Type are set.
// Sender identity never comes from here; the router knows who sent it.
type Event struct {
	Type        string          `json:"type"`
	RoomCode    string          `json:"roomCode,omitempty"`
	Username    string          `json:"username,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	TargetID    domain.ConnID   `json:"targetId,omitempty"`
	RequesterID domain.ConnID   `json:"requesterId,omitempty"`
	ToID        domain.ConnID   `json:"toId,omitempty"`
	Offer       json.RawMessage `json:"offer,omitempty"`
	Answer      json.RawMessage `json:"answer,omitempty"`
	Candidate   json.RawMessage `json:"candidate,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// Name returns the display name the client sent under either accepted key.
func (e Event) Name() string {
	if e.Username != "" {
		return e.Username
	}
	return e.DisplayName
}

// Outbound is one message addressed to one connection.
type Outbound struct {
	To  domain.ConnID
	Msg any
}

type TypeOnlyMsg struct {
	Type string `json:"type"`
}

type ErrorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type RoomCodeMsg struct {
	Type     string          `json:"type"`
	RoomCode domain.RoomCode `json:"roomCode"`
}

type InvalidRoomMsg struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	Error    string `json:"error"`
}

type UserJoinedMsg struct {
	Type     string        `json:"type"`
	ID       domain.ConnID `json:"id"`
	Username string        `json:"username"`
}

type RoomUsersMsg struct {
	Type     string          `json:"type"`
	RoomCode domain.RoomCode `json:"roomCode"`
	Users    []MemberDTO     `json:"users"`
}

// PeerMsg carries share/control notifications between two members.
type PeerMsg struct {
	Type        string        `json:"type"`
	FromID      domain.ConnID `json:"fromId,omitempty"`
	RequesterID domain.ConnID `json:"requesterId,omitempty"`
	Username    string        `json:"username,omitempty"`
}

// SignalMsg relays WebRTC negotiation data untouched.
type SignalMsg struct {
	Type      string          `json:"type"`
	FromID    domain.ConnID   `json:"fromId"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type ChatMsg struct {
	Type     string        `json:"type"`
	FromID   domain.ConnID `json:"fromId"`
	Username string        `json:"username"`
	Message  string        `json:"message"`
	SentAt   int64         `json:"sentAt"`
}

type WhoAmIMsg struct {
	Type     string          `json:"type"`
	ID       domain.ConnID   `json:"id"`
	Username string          `json:"username"`
	RoomCode domain.RoomCode `json:"roomCode,omitempty"`
}
