package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error codes reported by the client. They follow the transport error codes
// the site's browser frontend shows to users, so status messages read the same.
const (
	CodeBadRequest  = "ERR_BAD_REQUEST"  // 4xx
	CodeBadResponse = "ERR_BAD_RESPONSE" // 5xx and other non-2xx
	CodeNetwork     = "ERR_NETWORK"      // request never got an answer
	CodeAborted     = "ECONNABORTED"     // timeout or cancellation
	CodeBadBody     = "ERR_BAD_BODY"     // 2xx with an unusable body
	CodeUnknown     = "ERR_UNKNOWN"
)

// Kind is the coarse failure taxonomy callers switch on.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindNetworkUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNetworkUnreachable:
		return "network_unreachable"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method that fails.
type Error struct {
	Code   string
	Status int // HTTP status, 0 when no response arrived
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Code, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Code, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Kind maps the code onto the taxonomy.
func (e *Error) Kind() Kind {
	switch e.Code {
	case CodeBadRequest:
		return KindBadRequest
	case CodeNetwork:
		return KindNetworkUnreachable
	}
	return KindUnknown
}

// KindOf classifies any error. Errors not produced by this package are KindUnknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind()
	}
	return KindUnknown
}

// CodeOf returns the error code, or CodeUnknown for foreign errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return CodeUnknown
}

// IsUnauthorized reports whether the server rejected the bearer token.
func IsUnauthorized(err error) bool {
	var ae *Error
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden
}

func statusError(status int) *Error {
	code := CodeBadResponse
	if status >= 400 && status < 500 {
		code = CodeBadRequest
	}
	return &Error{Code: code, Status: status}
}

func transportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Code: CodeAborted, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Code: CodeAborted, Err: err}
	}
	return &Error{Code: CodeNetwork, Err: err}
}
