package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash is a bcrypt hash; the plaintext never leaves the handler.
// ResetToken and ResetTokenExpires are set and cleared together, only while
// a password reset is pending.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Name              string
	ResetToken        *string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
