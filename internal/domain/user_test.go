package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.ErrorIs(t, ValidateUsername(""), ErrUsernameEmpty)
	assert.ErrorIs(t, ValidateUsername("   "), ErrUsernameEmpty)
	assert.ErrorIs(t, ValidateUsername(strings.Repeat("a", MaxUsernameLen+1)), ErrUsernameTooLong)
	assert.NoError(t, ValidateUsername(strings.Repeat("é", MaxUsernameLen)))
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "bob", NormalizeUsername("  bob ", "x"))
	assert.Equal(t, "fallback", NormalizeUsername("  ", "fallback"))

	long := NormalizeUsername(strings.Repeat("ж", 50), "x")
	assert.Equal(t, MaxUsernameLen, utf8.RuneCountInString(long))
	assert.True(t, utf8.ValidString(long))
}

func TestNewConnIDUnique(t *testing.T) {
	a, b := NewConnID(), NewConnID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
