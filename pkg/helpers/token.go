package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// ResetTokenBytes gives 256 bits of entropy for password reset tokens.
// Session ids use the same size.
const ResetTokenBytes = 32

// GenerateToken returns n random bytes from a CSPRNG encoded as an opaque
// URL-safe string.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
