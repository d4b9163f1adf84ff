package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidationFailed  = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrRoleUnresolved    = errors.New("role unresolved")
	ErrInternal          = errors.New("internal error")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}

// unavailable keeps the cause for logs; handlers only show op.
func unavailable(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// StoreError is a store failure the caller may retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}
