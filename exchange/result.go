package exchange

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Response is the fully reconstructed HTTP response for one request.
type Response struct {
	Proto      string
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

type ErrorKind int

const (
	// InvalidInput means the method or input shape failed validation;
	// no network activity took place.
	InvalidInput ErrorKind = iota
	// BadFormat means the URL could not be decomposed; no network
	// activity took place.
	BadFormat
	// ConnectionFailed covers abnormal termination reported by the
	// transport and the deadline elapsing with no event.
	ConnectionFailed
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case BadFormat:
		return "bad URL format"
	case ConnectionFailed:
		return "connection failed"
	default:
		return "unknown error"
	}
}

// Error is the terminal failure of one request. Every error is final: this
// client never retries.
type Error struct {
	Kind   ErrorKind
	Reason string
	// Timeout is set when the deadline elapsed with no matching event.
	Timeout bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// NewError builds an Error carrying a stack trace, so that callers can
// recover the kind with errors.Cause.
func NewError(kind ErrorKind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Reason: fmt.Sprintf(format, args...)})
}

func newTimeoutError(format string, args ...interface{}) error {
	return errors.WithStack(&Error{
		Kind:    ConnectionFailed,
		Reason:  fmt.Sprintf(format, args...),
		Timeout: true,
	})
}

// IsTimeout reports whether err is a deadline failure.
func IsTimeout(err error) bool {
	e, ok := errors.Cause(err).(*Error)
	return ok && e.Timeout
}

// KindOf extracts the error kind from err. The second return is false when
// err did not originate from this package.
func KindOf(err error) (ErrorKind, bool) {
	e, ok := errors.Cause(err).(*Error)
	if !ok {
		return 0, false
	}
	return e.Kind, true
}
