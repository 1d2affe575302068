package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(id string) domain.Member {
	return domain.NewMember(domain.ConnID(id), "user-"+id)
}

func TestRoomStoreCreateAndMembers(t *testing.T) {
	s := NewRoomStore()

	code, err := s.CreateRoom(member("a"))
	require.NoError(t, err)
	require.True(t, code.Valid())
	require.NoError(t, s.AddMember(code, member("b")))
	require.NoError(t, s.AddMember(code, member("c")))

	members, err := s.Members(code)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, domain.ConnID("a"), members[0].ConnID)
	assert.Equal(t, domain.ConnID("b"), members[1].ConnID)
	assert.Equal(t, domain.ConnID("c"), members[2].ConnID)

	// Members returns a copy.
	members[0].DisplayName = "mutated"
	again, _ := s.Members(code)
	assert.Equal(t, "user-a", again[0].DisplayName)
}

func TestRoomStoreAddMemberIsIdempotent(t *testing.T) {
	s := NewRoomStore()
	code, _ := s.CreateRoom(member("a"))
	require.NoError(t, s.AddMember(code, member("a")))
	members, _ := s.Members(code)
	assert.Len(t, members, 1)
}

func TestRoomStoreUnknownRoom(t *testing.T) {
	s := NewRoomStore()
	assert.ErrorIs(t, s.AddMember("ZZZZZZ", member("a")), ErrRoomNotFound)
	_, err := s.Members("ZZZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = s.RemoveMember("ZZZZZZ", "a")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, s.RenameMember("ZZZZZZ", "a", "x"), ErrRoomNotFound)
	assert.False(t, s.Exists("ZZZZZZ"))
}

func TestRoomStoreRemoveLastMemberDeletesRoom(t *testing.T) {
	s := NewRoomStore()
	code, _ := s.CreateRoom(member("a"))
	require.NoError(t, s.AddMember(code, member("b")))

	removed, err := s.RemoveMember(code, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.ConnID("a"), removed.ConnID)
	assert.True(t, s.Exists(code))

	_, err = s.RemoveMember(code, "a")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = s.RemoveMember(code, "b")
	require.NoError(t, err)
	assert.False(t, s.Exists(code))
	assert.Empty(t, s.List())
	assert.ErrorIs(t, s.AddMember(code, member("c")), ErrRoomNotFound)
}

func TestRoomStoreCreatedRoomIsNeverEmpty(t *testing.T) {
	s := NewRoomStore()
	code, err := s.CreateRoom(member("a"))
	require.NoError(t, err)

	members, err := s.Members(code)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, domain.ConnID("a"), members[0].ConnID)
	assert.Equal(t, []core.RoomInfo{{Code: code, MemberCount: 1}}, s.List())

	_, err = s.RemoveMember(code, "ghost")
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.True(t, s.Exists(code), "a failed remove keeps the room")
}

func TestRoomStoreConcurrentReadersSeeNoEmptyRoom(t *testing.T) {
	s := NewRoomStore()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 200 {
			code, err := s.CreateRoom(member(fmt.Sprintf("m%d", i)))
			if err != nil {
				return
			}
			_, _ = s.RemoveMember(code, domain.ConnID(fmt.Sprintf("m%d", i)))
		}
	}()
	for {
		select {
		case <-done:
			assert.Empty(t, s.List())
			return
		default:
		}
		for _, info := range s.List() {
			require.Positive(t, info.MemberCount, "room %s observed empty", info.Code)
		}
	}
}

func TestRoomStoreCreateRegeneratesOnCollision(t *testing.T) {
	codes := []domain.RoomCode{"AAAAAA", "AAAAAA", "AAAAAA", "BBBBBB"}
	calls := 0
	s := NewRoomStoreWithGenerator(func() (domain.RoomCode, error) {
		c := codes[calls]
		calls++
		return c, nil
	})

	first, err := s.CreateRoom(member("a"))
	require.NoError(t, err)
	second, err := s.CreateRoom(member("b"))
	require.NoError(t, err)

	assert.Equal(t, domain.RoomCode("AAAAAA"), first)
	assert.Equal(t, domain.RoomCode("BBBBBB"), second)
	assert.Equal(t, 4, calls)
}

func TestRoomStoreCreateGivesUp(t *testing.T) {
	s := NewRoomStoreWithGenerator(func() (domain.RoomCode, error) { return "AAAAAA", nil })
	_, err := s.CreateRoom(member("a"))
	require.NoError(t, err)
	_, err = s.CreateRoom(member("b"))
	assert.ErrorIs(t, err, ErrCodeExhausted)

	boom := errors.New("entropy gone")
	s = NewRoomStoreWithGenerator(func() (domain.RoomCode, error) { return "", boom })
	_, err = s.CreateRoom(member("c"))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.List())
}

func TestRoomStoreRenameAndList(t *testing.T) {
	s := NewRoomStoreWithGenerator(sequence("BBBBBB", "AAAAAA"))
	_, _ = s.CreateRoom(member("x"))
	a, _ := s.CreateRoom(member("y"))
	require.NoError(t, s.AddMember(a, member("z")))

	require.NoError(t, s.RenameMember(a, "z", "zed"))
	assert.ErrorIs(t, s.RenameMember(a, "x", "nope"), ErrMemberNotFound)
	members, _ := s.Members(a)
	assert.Equal(t, "zed", members[1].DisplayName)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, domain.RoomCode("AAAAAA"), list[0].Code)
	assert.Equal(t, 2, list[0].MemberCount)
	assert.Equal(t, domain.RoomCode("BBBBBB"), list[1].Code)
	assert.Equal(t, 1, list[1].MemberCount)
}

func sequence(codes ...domain.RoomCode) CodeGenerator {
	i := 0
	return func() (domain.RoomCode, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}
