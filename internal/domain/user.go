// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxUsernameLen  = 36
	DefaultUsername = "Guest"
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// ConnID identifies one transport connection for its whole lifetime.
type ConnID string

// NewConnID is a tiny helper to avoid ad-hoc uuid calls in adapters.
func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// ValidateUsername reports whether name can be used as is.
func ValidateUsername(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrUsernameEmpty
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}

// NormalizeUsername trims name and cuts it to MaxUsernameLen runes.
// An empty result falls back to fallback.
func NormalizeUsername(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		name = strings.TrimSpace(string([]rune(name)[:MaxUsernameLen]))
	}
	return name
}
