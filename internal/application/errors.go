package application

import "errors"

// Domain failures are sentinel errors so callers can branch with errors.Is.
// All of them are expected, recoverable conditions; storage failures are
// returned separately as wrapped infrastructure errors.
var (
	// Registration conflicts. Username is checked before email, so only the
	// first violation is ever reported.
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")

	// Authentication. Deliberately unspecific: the message never reveals
	// whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Lookups.
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailNotFound = errors.New("no user found with this email address")

	// Password change.
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordMismatch     = errors.New("new password and confirmation do not match")
	ErrSamePassword         = errors.New("new password must be different from current password")

	// Reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrResetTokenExpired = errors.New("reset token has expired, please request a new one")
)

// Password policy violations, one per rule so the broken rule is reported.
var (
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper   = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLower   = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoDigit   = errors.New("password must contain at least one number")
	ErrPasswordNoSpecial = errors.New("password must contain at least one special character")
)

// IsPolicyViolation reports whether err is one of the password strength
// sentinel errors.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrPasswordNoUpper) ||
		errors.Is(err, ErrPasswordNoLower) ||
		errors.Is(err, ErrPasswordNoDigit) ||
		errors.Is(err, ErrPasswordNoSpecial)
}
