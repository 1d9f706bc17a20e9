package storage

import "errors"

var (
	// ErrNotFound indicates the addressed document doesn't exist.
	ErrNotFound = errors.New("document not found")
)
