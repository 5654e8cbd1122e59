package service

import (
	"errors"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/store"
)

var (
	// ErrValidation marks malformed or out-of-range input
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced id that does not exist
	ErrNotFound = store.ErrNotFound
	// ErrDuplicate marks a second follow, favorite or cart entry for the same pair
	ErrDuplicate = store.ErrDuplicate
	// ErrSelfReference marks a user following themselves
	ErrSelfReference = errors.New("cannot subscribe to yourself")
	// ErrForbidden marks an action on someone else's resource
	ErrForbidden = errors.New("forbidden")
	// ErrInUse marks deletion of catalog data still referenced by recipes
	ErrInUse = store.ErrInUse
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
}
