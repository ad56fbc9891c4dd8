package security

import (
	"errors"
	"unicode"
)

// The backend enforces its own password rules on registration; this check
// mirrors the minimum so obviously bad passwords fail before a round trip.

const minPasswordLen = 6

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordNoLetter = errors.New("password must contain a letter")
)

func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	for _, r := range password {
		if unicode.IsLetter(r) {
			return nil
		}
	}
	return ErrPasswordNoLetter
}
