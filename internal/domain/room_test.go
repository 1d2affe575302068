package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomCode(t *testing.T) {
	seen := make(map[RoomCode]bool)
	for range 200 {
		code, err := NewRoomCode()
		require.NoError(t, err)
		require.Len(t, string(code), RoomCodeLen)
		require.True(t, code.Valid(), "generated code %q must be valid", code)
		for _, ch := range string(code) {
			assert.NotContains(t, "0O1I", string(ch))
		}
		seen[code] = true
	}
	// 32^6 codes; 200 draws colliding more than a couple of times means a broken source.
	assert.Greater(t, len(seen), 195)
}

func TestNormalizeRoomCode(t *testing.T) {
	tests := []struct {
		in   string
		want RoomCode
	}{
		{"abc234", "ABC234"},
		{"  xyz789\n", "XYZ789"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRoomCode(tt.in))
		})
	}
}

func TestRoomCodeValid(t *testing.T) {
	assert.True(t, RoomCode("ABC234").Valid())
	assert.False(t, RoomCode("ABC23").Valid())
	assert.False(t, RoomCode("ABC2345").Valid())
	assert.False(t, RoomCode("ABC230").Valid(), "0 is not in the alphabet")
	assert.False(t, RoomCode("abc234").Valid())
	assert.False(t, RoomCode(strings.Repeat("I", RoomCodeLen)).Valid())
}
