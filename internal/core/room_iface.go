package core

import (
	"github.com/dkeye/ShareRoom/internal/domain"
)

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.ConnID `json:"id"`
	Username string        `json:"username"`
}

func MembersDTO(members []domain.Member) []MemberDTO {
	out := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, MemberDTO{ID: m.ConnID, Username: m.DisplayName})
	}
	return out
}

type RoomInfo struct {
	Code        domain.RoomCode `json:"roomCode"`
	MemberCount int             `json:"members"`
}

// RoomStore owns room membership. A room is created together with its first
// member and is deleted in the same call that removes its last one, so no
// empty room is ever observable.
type RoomStore interface {
	CreateRoom(first domain.Member) (domain.RoomCode, error)
	AddMember(code domain.RoomCode, m domain.Member) error
	RemoveMember(code domain.RoomCode, id domain.ConnID) (domain.Member, error)
	RenameMember(code domain.RoomCode, id domain.ConnID, name string) error
	Members(code domain.RoomCode) ([]domain.Member, error)
	Exists(code domain.RoomCode) bool
	List() []RoomInfo
}
