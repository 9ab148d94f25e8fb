// errs defines the error taxonomy every core operation resolves into. Each
// operation either returns a result or exactly one of these; the HTTP layer
// maps them to status codes without inspecting messages.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError means the caller's input is missing or malformed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced row does not exist.
type NotFoundError struct {
	Entity string
	Msg    string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found: " + e.Msg
}

func NotFoundf(entity, format string, args ...interface{}) error {
	return &NotFoundError{Entity: entity, Msg: fmt.Sprintf(format, args...)}
}

// ConstraintError means a write would break a uniqueness or foreign-key
// constraint in a way the upsert retry could not absorb.
type ConstraintError struct {
	Msg string
	Err error
}

func (e *ConstraintError) Error() string {
	return "constraint violation: " + e.Msg
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// StorageError is an I/O-level failure from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage failure in " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// UpstreamError is a failure talking to an external provider, currently only
// the catalog search API.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Service + " upstream failure: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var t *ValidationError
	return errors.As(err, &t)
}

func IsNotFound(err error) bool {
	var t *NotFoundError
	return errors.As(err, &t)
}

func IsConstraint(err error) bool {
	var t *ConstraintError
	return errors.As(err, &t)
}

func IsStorage(err error) bool {
	var t *StorageError
	return errors.As(err, &t)
}

func IsUpstream(err error) bool {
	var t *UpstreamError
	return errors.As(err, &t)
}
