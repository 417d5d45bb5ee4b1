package types

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. Workflow operations return these as
// values; none of the expected domain conditions are surfaced as panics.
type Kind string

// Domain error kinds
const (
	KindNotAuthenticated        Kind = "not-authenticated"
	KindNotFound                Kind = "not-found"
	KindAuthorizationDenied     Kind = "authorization-denied"
	KindInvalidStatusTransition Kind = "invalid-status-transition"
	KindInvalidOtp              Kind = "invalid-otp"
	KindExpiredOtp              Kind = "expired-otp"
	KindConflict                Kind = "conflict"
	KindOperationInProgress     Kind = "operation-in-progress"
	KindPersistenceFailure      Kind = "persistence-failure"
)

// Error is a typed domain error. Kind discriminates the failure class;
// Err optionally carries the underlying cause.
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

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or an empty Kind for non-domain errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// ErrNotAuthenticated builds a NotAuthenticated error.
func ErrNotAuthenticated() *Error {
	return &Error{Kind: KindNotAuthenticated, Message: "no authenticated user"}
}

// ErrNotFound builds a NotFound error for the named entity.
func ErrNotFound(entity string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found", Err: err}
}

// ErrAuthorizationDenied builds an AuthorizationDenied error.
func ErrAuthorizationDenied(msg string) *Error {
	return &Error{Kind: KindAuthorizationDenied, Message: msg}
}

// ErrInvalidStatusTransition builds an InvalidStatusTransition error.
func ErrInvalidStatusTransition(msg string) *Error {
	return &Error{Kind: KindInvalidStatusTransition, Message: msg}
}

// ErrInvalidOtp builds an InvalidOtp error.
func ErrInvalidOtp() *Error {
	return &Error{Kind: KindInvalidOtp, Message: "submitted code does not match"}
}

// ErrExpiredOtp builds an ExpiredOtp error.
func ErrExpiredOtp() *Error {
	return &Error{Kind: KindExpiredOtp, Message: "code has expired, request a new one"}
}

// ErrConflict builds a Conflict error.
func ErrConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// ErrOperationInProgress builds an OperationInProgress error. Callers treat
// this as an idempotent "already happening" signal rather than a failure.
func ErrOperationInProgress(key string) *Error {
	return &Error{Kind: KindOperationInProgress, Message: "operation already running: " + key}
}

// ErrPersistence builds a PersistenceFailure error wrapping the store error.
func ErrPersistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistenceFailure, Message: msg, Err: err}
}
