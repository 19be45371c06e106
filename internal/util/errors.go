// internal/util/errors.go
// Error taxonomy shared by the backend client, dispatcher and HTTP adapters.

package util

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindConfig     Kind = "config_error"
	KindValidation Kind = "validation_error"
	KindPolicy     Kind = "policy_error"
	KindProtocol   Kind = "protocol_error"
	KindAuth       Kind = "auth_error"
	KindBackend    Kind = "backend_error"
	KindInternal   Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Message string

	// Status and Body are set for backend failures.
	Status int
	Body   string

	Err error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Kind == KindBackend && e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
		if e.Body != "" {
			msg += ": " + e.Body
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Kind == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *AppError) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ConfigError(format string, args ...any) *AppError {
	return newf(KindConfig, format, args...)
}

func ValidationError(format string, args ...any) *AppError {
	return newf(KindValidation, format, args...)
}

func PolicyError(format string, args ...any) *AppError {
	return newf(KindPolicy, format, args...)
}

func ProtocolError(format string, args ...any) *AppError {
	return newf(KindProtocol, format, args...)
}

func AuthError(format string, args ...any) *AppError {
	return newf(KindAuth, format, args...)
}

// BackendError records a non-success response from the document backend.
func BackendError(status int, body string) *AppError {
	return &AppError{Kind: KindBackend, Message: "backend request failed", Status: status, Body: body}
}

// Wrap attaches cause to a new error of the given kind.
func Wrap(kind Kind, err error, format string, args ...any) *AppError {
	e := newf(kind, format, args...)
	e.Err = err
	return e
}

// KindOf reports the kind of the first AppError in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
