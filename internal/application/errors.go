package application

import "errors"

// Workflow errors. Handlers map these to HTTP statuses at the boundary;
// anything else coming out of a service is an internal error and must not
// reach the client verbatim.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("Email exists already")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("not found")
	// ErrInvalidOrExpiredToken deliberately covers wrong token, expired
	// token, and wrong user alike so callers can't probe which it was.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrForbidden             = errors.New("forbidden")
	ErrEmptyCart             = errors.New("cart is empty")
)
