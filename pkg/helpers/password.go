package helpers

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when a login targets an unknown username so
// the request costs a bcrypt verification either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-user-sentinel"), bcrypt.DefaultCost)

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck performs a bcrypt comparison against a throwaway hash.
// It always fails; callers use it to equalize timing between known and
// unknown usernames.
func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
