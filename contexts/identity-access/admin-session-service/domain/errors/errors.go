package errors

import "errors"

var (
	ErrInvalidCredentials = errors.New("admin credentials are invalid")
	ErrInvalidSession     = errors.New("session token is invalid or expired")
)
