package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind is the closed classification of generation-backend failures.
// Kinds are assigned at the failure site and never re-derived from error
// text afterwards.
type ErrorKind int

const (
	// KindTimeout means the call exceeded its deadline or was cancelled.
	KindTimeout ErrorKind = iota
	// KindNetworkUnavailable means the backend could not be reached at all.
	KindNetworkUnavailable
	// KindBackendFault means the backend answered with a server-side error.
	KindBackendFault
	// KindMalformedResponse means the backend answered 200 but the payload
	// carried no usable text.
	KindMalformedResponse
	// KindConfiguration means the client is missing credentials. The detail
	// is deliberately withheld from callers.
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindBackendFault:
		return "backend_fault"
	case KindMalformedResponse:
		return "malformed_response"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is a classified generation-backend failure.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm: %s: %s", e.Kind, e.Message)
	}
	return "llm: " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// KindOf extracts the error kind from err. The second return is false when
// err did not originate from this package.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// classifyTransport maps a transport-level error from http.Client.Do to a
// closed kind.
func classifyTransport(ctx context.Context, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newError(KindTimeout, "request to AI service timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return newError(KindTimeout, "request to AI service was cancelled", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindTimeout, "request to AI service timed out", err)
	}
	return newError(KindNetworkUnavailable, "network error connecting to AI service", err)
}
