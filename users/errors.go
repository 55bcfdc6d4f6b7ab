package users

import "errors"

// Kind classifies a failed user operation.
type Kind string

const (
	KindInvalidID          Kind = "InvalidId"
	KindInvalidBody        Kind = "InvalidBody"
	KindMissingField       Kind = "MissingField"
	KindInvalidEmailFormat Kind = "InvalidEmailFormat"
	KindEmptyPatch         Kind = "EmptyPatch"
	KindEmailConflict      Kind = "EmailConflict"
	KindNotFound           Kind = "NotFound"
	KindStorageFailure     Kind = "StorageFailure"
)

// Error is returned by every Service operation that fails.
// Message is safe to show to API clients; Err, when set, is the
// underlying cause and is meant for server-side logs only.
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

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so the
// sentinels below match any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is. They carry the default client message.
var (
	ErrInvalidID          = &Error{Kind: KindInvalidID, Message: "id must be an integer greater than 0"}
	ErrInvalidBody        = &Error{Kind: KindInvalidBody, Message: "invalid request body"}
	ErrMissingField       = &Error{Kind: KindMissingField, Message: "name and email are required"}
	ErrInvalidEmailFormat = &Error{Kind: KindInvalidEmailFormat, Message: "email has an invalid format"}
	ErrEmptyPatch         = &Error{Kind: KindEmptyPatch, Message: "at least one field (name or email) must be provided"}
	ErrEmailConflict      = &Error{Kind: KindEmailConflict, Message: "email is already registered"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrStorageFailure     = &Error{Kind: KindStorageFailure, Message: "internal server error"}
)

// wrap returns a copy of sentinel carrying cause.
func wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: cause}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
