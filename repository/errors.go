package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotOwner is returned when a caller tries to remove a post written by someone else.
	ErrNotOwner = errors.New("caller does not own the record")
)
