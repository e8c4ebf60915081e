// Package apperr defines the error taxonomy shared by the booking, catalog
// and search services. Handlers translate kinds to HTTP status codes; only
// StoreFailure hides its cause from the caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	InvalidRequest Kind = iota + 1
	IdentityConflict
	InsufficientCapacity
	CapacityRace
	NotFound
	StoreFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidRequest:
		return "invalid request"
	case IdentityConflict:
		return "identity conflict"
	case InsufficientCapacity:
		return "insufficient capacity"
	case CapacityRace:
		return "capacity race"
	case NotFound:
		return "not found"
	case StoreFailure:
		return "store failure"
	}
	return "unknown"
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause, typically a driver error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind of err, or StoreFailure for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StoreFailure
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the transport status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case InvalidRequest, IdentityConflict, InsufficientCapacity:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case CapacityRace:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is what the caller sees. Store failures are reported
// generically so storage internals never leak into responses.
func PublicMessage(err error) string {
	if KindOf(err) == StoreFailure {
		return "internal server error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
