package domain

// Member represents one connection's participation in a room.
// No transport or lifecycle logic here.
type Member struct {
	ConnID      ConnID
	DisplayName string
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(id ConnID, name string) Member {
	return Member{ConnID: id, DisplayName: name}
}
