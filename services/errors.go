package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tunik/tunik-api/store"
)

// Kind is the stable, client-facing category of a service failure
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindInvalidReference Kind = "INVALID_REFERENCE"
	KindEmptyDetail      Kind = "EMPTY_DETAIL"
	KindConflict         Kind = "CONFLICT"
	KindInvalidOperation Kind = "INVALID_OPERATION"
	KindStockViolation   Kind = "STOCK_VIOLATION"
	KindNotFound         Kind = "NOT_FOUND"
	KindInternal         Kind = "INTERNAL_ERROR"
)

// Error is returned by every service operation that fails. Message is safe to
// show to clients; Err holds the underlying cause, which is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind onto a response status code
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInvalidReference, KindEmptyDetail, KindInvalidOperation, KindStockViolation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed or missing input
func ValidationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

// InvalidReference reports a referenced entity that does not exist
func InvalidReference(format string, args ...interface{}) *Error {
	return newError(KindInvalidReference, format, args...)
}

// EmptyDetail reports a write that needed at least one detail line
func EmptyDetail(format string, args ...interface{}) *Error {
	return newError(KindEmptyDetail, format, args...)
}

// Conflict reports a uniqueness or cross-field consistency failure
func Conflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// InvalidOperation reports a structurally disallowed transition
func InvalidOperation(format string, args ...interface{}) *Error {
	return newError(KindInvalidOperation, format, args...)
}

// StockViolation reports a stock adjustment that would go below zero
func StockViolation(format string, args ...interface{}) *Error {
	return newError(KindStockViolation, format, args...)
}

// NotFound reports a missing parent or detail row
func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// Internal wraps an unexpected storage failure
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for errors not raised by
// this package.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// AsError returns err as a service error, wrapping unknown errors as internal
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return Internal(err, "Unexpected server error")
}

// storageError classifies an error returned by the storage layer. Errors that
// are already service errors pass through unchanged.
func storageError(err error, message string) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	err = store.Translate(err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: message, Err: err}
	case store.IsReferentialConstraint(err):
		return &Error{Kind: KindConflict, Message: message + ": the record is referenced by other records", Err: err}
	case store.IsDuplicateKey(err):
		return &Error{Kind: KindConflict, Message: message + ": a record with the same key already exists", Err: err}
	default:
		return Internal(err, message)
	}
}

// notFoundOr reports a missing row as NotFound and classifies anything else
func notFoundOr(err error, notFoundMsg, failMsg string) error {
	return notFoundAs(err, NotFound("%s", notFoundMsg), failMsg)
}

// notFoundAs reports a missing row as missing and classifies anything else
func notFoundAs(err error, missing *Error, failMsg string) error {
	if errors.Is(store.Translate(err), store.ErrNotFound) {
		return missing
	}
	return storageError(err, failMsg)
}
