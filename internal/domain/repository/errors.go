package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches, including conditional
	// updates that matched zero rows.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail maps the unique constraint on users.email.
	ErrDuplicateEmail = errors.New("email already exists")
)
