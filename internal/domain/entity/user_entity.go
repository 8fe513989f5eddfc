package entity

import (
	"time"
)

// User is the aggregate root for the credential domain
// Passwords are stored as bcrypt hashes in PasswordHash
//
// Username and Email are unique and immutable after creation; there is no
// rename flow.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
