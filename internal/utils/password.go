package utils

import (
	"math/rand/v2"

	"github.com/thanhpk/randstr"
)

const (
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	SpecialChars = `!@#$%^&*(),.?":{}|<>`
)

// GeneratePassword returns a random password of length n (minimum 4) holding
// at least one upper-case letter, lower-case letter, digit and special character
func GeneratePassword(n int) string {
	if n < 4 {
		n = 4
	}

	chars := []byte(randstr.String(1, upperChars) +
		randstr.String(1, lowerChars) +
		randstr.String(1, digitChars) +
		randstr.String(1, SpecialChars) +
		randstr.String(n-4, upperChars+lowerChars+digitChars+SpecialChars))

	rand.Shuffle(len(chars), func(i, j int) {
		chars[i], chars[j] = chars[j], chars[i]
	})
	return string(chars)
}
