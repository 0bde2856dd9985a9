package redmine

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindHTTP is a transport-level failure: DNS, connection, timeout, body read.
	KindHTTP Kind = iota
	// KindResponse is a 2xx response whose body could not be decoded.
	KindResponse
	// KindForbidden is a 401 or 403 response.
	KindForbidden
	// KindServer is any 5xx response.
	KindServer
	// KindUnknown is any other non-2xx response.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindResponse:
		return "response"
	case KindForbidden:
		return "forbidden"
	case KindServer:
		return "server"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by every Client operation. It carries only the data
// needed to describe the failure, never a wrapped transport error.
type Error struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int    // set for KindForbidden, KindServer, KindUnknown
	Detail     string // set for KindHTTP and KindResponse
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("Http error: %s %s: %s", e.Method, e.URL, e.Detail)
	case KindResponse:
		return fmt.Sprintf("Invalid response: %s %s: %s", e.Method, e.URL, e.Detail)
	case KindForbidden:
		return fmt.Sprintf("Authorization error: Server denied access to %s %s", e.Method, e.URL)
	case KindServer:
		return fmt.Sprintf("Server-side error: Server returned error on %s %s", e.Method, e.URL)
	default:
		return fmt.Sprintf("Unknown error: Server returned %d %s on %s %s",
			e.StatusCode, http.StatusText(e.StatusCode), e.Method, e.URL)
	}
}

// retryable reports whether repeating the same idempotent request may succeed.
func (e *Error) retryable() bool {
	return e.Kind == KindHTTP || e.Kind == KindServer
}

// errorForStatus maps a non-2xx status code to an Error, or returns nil for 2xx.
func errorForStatus(method, url string, code int) *Error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &Error{Kind: KindForbidden, Method: method, URL: url, StatusCode: code}
	case code >= 500 && code < 600:
		return &Error{Kind: KindServer, Method: method, URL: url, StatusCode: code}
	default:
		return &Error{Kind: KindUnknown, Method: method, URL: url, StatusCode: code}
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
