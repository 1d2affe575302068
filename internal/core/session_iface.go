package core

import "github.com/dkeye/ShareRoom/internal/domain"

// Session is the per-connection metadata kept by the registry.
// RoomCode is empty while the connection is not in a room.
type Session struct {
	RoomCode    domain.RoomCode
	DisplayName string
}

func (s Session) InRoom() bool { return s.RoomCode != "" }
