package email

import "errors"

var (
	// ErrMalformed indicates inbound bytes could not be parsed into a message.
	ErrMalformed = errors.New("malformed email")
)
