package application

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordSpecialChars is the fixed set that satisfies the special-character
// rule.
const PasswordSpecialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// ValidatePassword checks password strength. It is pure and total: any input
// string, including empty, yields either nil or the first violated rule in
// order (length, uppercase, lowercase, digit, special).
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return ErrPasswordNoUpper
	}
	if !hasLower {
		return ErrPasswordNoLower
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	if !hasSpecial {
		return ErrPasswordNoSpecial
	}
	return nil
}
