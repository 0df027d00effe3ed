package repository

import "errors"

var (
	// ErrNotFound indicates an entity was not located for the given scope.
	ErrNotFound = errors.New("repository: not found")
	// ErrEmailTaken is returned when creating a user whose email already exists.
	ErrEmailTaken = errors.New("repository: email already registered")
)
