package model

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an anticipated, operational failure: bad input, missing
// resource, duplicate resource, failed authentication, or a broken
// external collaborator. Anything that is not an AppError is treated as
// a programming defect and never leaks its detail to clients.
type AppError struct {
	Status  int
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.cause }

// IsOperational reports whether err (anywhere in its chain) is an AppError.
func IsOperational(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// AsAppError extracts the AppError from err's chain, if any.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func NewValidation(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

func NewAuthentication(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

// NewExternal wraps a failure of an external collaborator (completion
// API, store) that is not attributable to the client.
func NewExternal(msg string, cause error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: msg, cause: cause}
}

// Sentinel errors used by store implementations; services translate
// them into the operational taxonomy above.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
