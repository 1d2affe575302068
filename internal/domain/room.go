package domain

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	RoomCodeLen = 6
	// RoomCodeAlphabet leaves out 0/O and 1/I.
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// RoomCode is the short human-typable id of a room.
type RoomCode string

// NewRoomCode draws RoomCodeLen characters from RoomCodeAlphabet using crypto/rand.
func NewRoomCode() (RoomCode, error) {
	size := big.NewInt(int64(len(RoomCodeAlphabet)))
	var b strings.Builder
	b.Grow(RoomCodeLen)
	for range RoomCodeLen {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(RoomCodeAlphabet[n.Int64()])
	}
	return RoomCode(b.String()), nil
}

// NormalizeRoomCode makes codes typed by hand comparable to generated ones.
func NormalizeRoomCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// Valid reports whether c has the shape of a generated code.
func (c RoomCode) Valid() bool {
	if len(c) != RoomCodeLen {
		return false
	}
	for i := 0; i < len(c); i++ {
		if strings.IndexByte(RoomCodeAlphabet, c[i]) < 0 {
			return false
		}
	}
	return true
}
