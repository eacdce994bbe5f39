// Package apierr defines the error taxonomy shared by every outbound call.
// All failures surfaced to callers are one of four kinds: auth, network,
// http, unknown. Retry policy and user messaging both branch on the kind,
// so classification happens once, at the point of failure.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure.
type Kind int

const (
	// KindUnknown is the catch-all (e.g. undecodable response body).
	KindUnknown Kind = iota
	// KindAuth means a missing or invalid credential. Fatal for the current
	// operation; callers typically route the user back to login.
	KindAuth
	// KindNetwork means no response was received (offline, DNS, timeout).
	// Transient; retryable for idempotent reads only.
	KindNetwork
	// KindHTTP means the server answered with a non-2xx status and a message.
	// Surfaced verbatim, never retried.
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// Error is a classified API failure.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status code, set for KindHTTP only
	Message string // server-reported or locally-produced message
	cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Auth creates a KindAuth error.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Network creates a KindNetwork error wrapping the transport cause.
func Network(cause error) *Error {
	msg := "no response received"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: KindNetwork, Message: msg, cause: cause}
}

// HTTP creates a KindHTTP error from a server response.
func HTTP(status int, message string) *Error {
	if message == "" {
		message = "request failed"
	}
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

// Unknown creates a KindUnknown error.
func Unknown(cause error) *Error {
	msg := "unexpected error"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: KindUnknown, Message: msg, cause: cause}
}

// KindOf returns the kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsAuth reports whether err is a KindAuth failure.
func IsAuth(err error) bool { return is(err, KindAuth) }

// IsNetwork reports whether err is a KindNetwork failure.
func IsNetwork(err error) bool { return is(err, KindNetwork) }

// IsHTTP reports whether err is a KindHTTP failure.
func IsHTTP(err error) bool { return is(err, KindHTTP) }

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
