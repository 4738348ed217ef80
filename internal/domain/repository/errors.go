package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user insert hits the unique
	// email index. The store rejects, never overwrites.
	ErrDuplicateEmail = errors.New("email already exists")
)
