package app

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrCodeExhausted  = errors.New("could not allocate a free room code")
)

// maxCodeAttempts bounds the regenerate-on-collision loop.
const maxCodeAttempts = 64

// CodeGenerator produces candidate room codes.
type CodeGenerator func() (domain.RoomCode, error)

// RoomStoreImpl is a threadsafe in-memory core.RoomStore.
type RoomStoreImpl struct {
	mu      sync.RWMutex
	rooms   map[domain.RoomCode][]domain.Member
	newCode CodeGenerator
}

func NewRoomStore() *RoomStoreImpl {
	return NewRoomStoreWithGenerator(domain.NewRoomCode)
}

func NewRoomStoreWithGenerator(gen CodeGenerator) *RoomStoreImpl {
	return &RoomStoreImpl{
		rooms:   make(map[domain.RoomCode][]domain.Member),
		newCode: gen,
	}
}

// CreateRoom allocates a code no live room uses and registers the room with
// first as its only member.
func (s *RoomStoreImpl) CreateRoom(first domain.Member) (domain.RoomCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for range maxCodeAttempts {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		if _, taken := s.rooms[code]; taken {
			log.Debug().Str("module", "app.rooms").Str("room", string(code)).Msg("room code collision, regenerating")
			continue
		}
		s.rooms[code] = []domain.Member{first}
		log.Info().Str("module", "app.rooms").Str("room", string(code)).Str("conn", string(first.ConnID)).Msg("room created")
		return code, nil
	}
	return "", ErrCodeExhausted
}

func (s *RoomStoreImpl) AddMember(code domain.RoomCode, m domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	if slices.ContainsFunc(members, func(x domain.Member) bool { return x.ConnID == m.ConnID }) {
		return nil
	}
	s.rooms[code] = append(members, m)
	log.Info().Str("module", "app.rooms").Str("room", string(code)).Str("conn", string(m.ConnID)).Msg("member added")
	return nil
}

// RemoveMember deletes the room when its last member leaves.
func (s *RoomStoreImpl) RemoveMember(code domain.RoomCode, id domain.ConnID) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.rooms[code]
	if !ok {
		return domain.Member{}, ErrRoomNotFound
	}
	i := slices.IndexFunc(members, func(x domain.Member) bool { return x.ConnID == id })
	if i < 0 {
		return domain.Member{}, ErrMemberNotFound
	}
	removed := members[i]
	members = slices.Delete(members, i, i+1)
	s.rooms[code] = members
	log.Info().Str("module", "app.rooms").Str("room", string(code)).Str("conn", string(id)).Msg("member removed")
	s.dropIfEmpty(code, members)
	return removed, nil
}

func (s *RoomStoreImpl) RenameMember(code domain.RoomCode, id domain.ConnID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	i := slices.IndexFunc(members, func(x domain.Member) bool { return x.ConnID == id })
	if i < 0 {
		return ErrMemberNotFound
	}
	members[i].DisplayName = name
	return nil
}

func (s *RoomStoreImpl) dropIfEmpty(code domain.RoomCode, members []domain.Member) {
	if len(members) > 0 {
		return
	}
	delete(s.rooms, code)
	log.Info().Str("module", "app.rooms").Str("room", string(code)).Msg("room deleted")
}

// Members returns a copy in join order.
func (s *RoomStoreImpl) Members(code domain.RoomCode) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return slices.Clone(members), nil
}

func (s *RoomStoreImpl) Exists(code domain.RoomCode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok
}

func (s *RoomStoreImpl) List() []core.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(s.rooms))
	for code, members := range s.rooms {
		out = append(out, core.RoomInfo{Code: code, MemberCount: len(members)})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return 1
		}
		return 0
	})
	return out
}
