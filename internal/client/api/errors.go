package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds. Use errors.Is() to check against these.
var (
	// ErrRejected is a 4xx answer carrying a structured message.
	ErrRejected = errors.New("rejected by backend")
	// ErrNotFound is a 404 answer.
	ErrNotFound = errors.New("not found")
	// ErrFault is a 5xx answer, a transport failure or an unreadable body.
	ErrFault = errors.New("backend fault")
)

// Kind classifies an Error.
type Kind int

const (
	KindFault Kind = iota
	KindRejected
	KindNotFound
)

func (k Kind) sentinel() error {
	switch k {
	case KindRejected:
		return ErrRejected
	case KindNotFound:
		return ErrNotFound
	default:
		return ErrFault
	}
}

// Error is returned by every Client call that does not succeed.
type Error struct {
	Kind Kind
	// Status is the HTTP status, 0 when no response was received.
	Status int
	// Message is the backend-provided message, possibly empty.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s (status %d): %s: %v", e.Kind.sentinel(), e.Status, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s (status %d): %s", e.Kind.sentinel(), e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
	default:
		return fmt.Sprintf("%s (status %d)", e.Kind.sentinel(), e.Status)
	}
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind.sentinel(), e.Err}
	}
	return []error{e.Kind.sentinel()}
}

// MessageOf returns the backend-provided message carried by err, if any.
func MessageOf(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// IsReachable reports whether err came with an HTTP response from the backend.
func IsReachable(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status != 0
}

// StatusOf returns the HTTP status carried by err, 0 if none.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
