package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid input, rejected before touching the store
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports a referenced entity that does not exist
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness violation or a busy resource
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// PreconditionError reports an invalid state transition
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// StorageError wraps an underlying store failure, including rollbacks
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsPrecondition reports whether err is a PreconditionError
func IsPrecondition(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}
