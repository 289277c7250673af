// Package apperrors defines the error taxonomy shared by the post services.
// Callers branch on Kind, never on message text.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindInvalidIdentifier
	KindNotFound
	KindForbidden
)

// Error is a domain failure with a stable, user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Is makes errors.Is match two domain errors with the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// HTTPStatus maps the error kind to the status code handlers respond with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInvalidIdentifier:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// KindOf reports the kind of err, or 0 when err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Canonical constructors. Messages are stable; kind stays the source of truth.

func CaptionTooLong() *Error {
	return New(KindValidation, "caption exceeds the 2200 character limit")
}

func InvalidID(id string) *Error {
	return New(KindInvalidIdentifier, "invalid identifier: "+id)
}

func PostNotFound() *Error {
	return New(KindNotFound, "post not found")
}

func CommentNotFound() *Error {
	return New(KindNotFound, "comment not found")
}

func ProfileNotFound() *Error {
	return New(KindNotFound, "profile not found")
}

func NotPostOwner() *Error {
	return New(KindForbidden, "you do not have permission to edit this post")
}
