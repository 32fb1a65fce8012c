package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies why a document could not be ingested.
type Kind string

const (
	KindStaging           Kind = "staging"
	KindUnsupportedFormat Kind = "unsupported-format"
	KindEmptyExtraction   Kind = "empty-extraction"
	KindModelInvocation   Kind = "model-invocation"
	KindModelTimeout      Kind = "model-timeout"
	KindMalformedResponse Kind = "malformed-response"
	KindMissingIdentity   Kind = "missing-identity"
	KindStoreConflict     Kind = "store-conflict"
	KindStore             Kind = "store"
	KindTemplate          Kind = "template"
	KindUnknown           Kind = "unknown"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrStaging           = &Error{Kind: KindStaging}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrEmptyExtraction   = &Error{Kind: KindEmptyExtraction}
	ErrModelInvocation   = &Error{Kind: KindModelInvocation}
	ErrModelTimeout      = &Error{Kind: KindModelTimeout}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrMissingIdentity   = &Error{Kind: KindMissingIdentity}
	ErrStoreConflict     = &Error{Kind: KindStoreConflict}
	ErrStore             = &Error{Kind: KindStore}
	ErrTemplate          = &Error{Kind: KindTemplate}
)

// Error is a per-document failure carrying its kind.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	if msg == string(e.Kind) {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports a match when target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Newf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
