package helpers

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the shop has always used; tune via a new
// constant only, existing hashes keep verifying regardless.
const bcryptCost = 12

// HashPassword hashes the plain text password using bcrypt with a per-call salt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// A mismatch is not an error, it simply returns false.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
