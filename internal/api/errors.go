package api

import (
	"errors"
	"fmt"
)

var (
	// ErrCommunication wraps transport failures: refused connections,
	// timeouts, truncated bodies.
	ErrCommunication = errors.New("communication error")
	// ErrMalformedResponse wraps a 2xx response whose body is not the
	// expected JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// Error is a non-2xx response from the review API.
type Error struct {
	StatusCode int
	// Detail is the server's "detail" message, or a generic message when the
	// body carries none.
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func newStatusError(status int, detail string) *Error {
	if detail == "" {
		detail = fmt.Sprintf("request failed with status %d", status)
	}
	return &Error{StatusCode: status, Detail: detail}
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
