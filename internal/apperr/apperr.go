// Package apperr holds the error kinds the record service reports and the
// HTTP status each one maps to at the API boundary.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation         Kind = "validation"
	KindConflict           Kind = "conflict"
	KindAlreadyExists      Kind = "already_exists"
	KindUnauthorized       Kind = "unauthorized"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindNotFound           Kind = "not_found"
	KindUploadFailed       Kind = "upload_failed"
	KindInternal           Kind = "internal"
)

// Error is a classified failure. Message is safe to show to clients; Err
// keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, apperr.NotFound("")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies err. An err that is already classified keeps its kind.
func Wrap(err error, kind Kind, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Kind: existing.Kind, Message: msg, Err: err}
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) error   { return New(KindValidation, msg) }
func Conflict(msg string) error     { return New(KindConflict, msg) }
func NotFound(msg string) error     { return New(KindNotFound, msg) }
func Unauthorized(msg string) error { return New(KindUnauthorized, msg) }

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Server error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict, KindAlreadyExists:
		return http.StatusBadRequest
	case KindUnauthorized, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
