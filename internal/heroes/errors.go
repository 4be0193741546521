package heroes

import (
	"errors"
)

// Code classifies a failed hero operation.
type Code string

const (
	CodeDuplicateID   Code = "DUPLICATE_ID"
	CodeDuplicateName Code = "DUPLICATE_NAME"
	CodeNotFound      Code = "HERO_NOT_FOUND"
	CodeInvalidName   Code = "INVALID_NAME"

	// CodeUnavailable marks a data source failure that carries no taxonomy
	// code of its own (transport, database).
	CodeUnavailable Code = "UNAVAILABLE"
)

// Error is a classified failure: a code plus a human-readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error carrying the same code, so callers can compare against
// the sentinels below regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	// ErrDuplicateID is returned when a hero with the same identity already exists.
	ErrDuplicateID = &Error{Code: CodeDuplicateID, Message: "a hero with this id already exists"}

	// ErrDuplicateName is returned when another hero already uses the name.
	ErrDuplicateName = &Error{Code: CodeDuplicateName, Message: "a hero with this name already exists"}

	// ErrNotFound is returned when no hero has the requested identity.
	ErrNotFound = &Error{Code: CodeNotFound, Message: "hero not found"}

	// ErrInvalidName is returned when a name is empty or blank.
	ErrInvalidName = &Error{Code: CodeInvalidName, Message: "hero name must not be blank"}
)

// Errorf returns an *Error with the given code and message.
func Errorf(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the taxonomy code from err. Errors outside the taxonomy
// report CodeUnavailable; a nil error reports "".
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnavailable
}

// Classify converts any error into an *Error, keeping taxonomy errors as they
// are and wrapping the rest under CodeUnavailable.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: CodeUnavailable, Message: err.Error()}
}
