package utils

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw := GeneratePassword(12)
		assert.Len(t, pw, 12)
		assert.True(t, strings.ContainsFunc(pw, unicode.IsUpper), pw)
		assert.True(t, strings.ContainsFunc(pw, unicode.IsLower), pw)
		assert.True(t, strings.ContainsFunc(pw, unicode.IsDigit), pw)
		assert.True(t, strings.ContainsAny(pw, SpecialChars), pw)
	}

	assert.Len(t, GeneratePassword(1), 4)
}
