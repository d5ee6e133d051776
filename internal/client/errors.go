package client

import "errors"

// FailureKind classifies why an invocation ultimately failed. Terminal
// kinds are never retried; retryable kinds are retried up to the attempt
// ceiling and reported only once it is exhausted.
type FailureKind int

const (
	// FailTimeout: every attempt exceeded its per-attempt budget.
	FailTimeout FailureKind = iota
	// FailNetwork: the dispatch endpoint could not be reached.
	FailNetwork
	// FailLimit: the server denied the call on the free-trial quota.
	FailLimit
	// FailConfiguration: the server reported it is misconfigured.
	FailConfiguration
	// FailOperation: any other terminal failure (validation, unsupported
	// operation, backend fault after retries).
	FailOperation
)

// Error is the single error type Invoke returns. Message is already
// user-facing; raw transport detail never leaks through it.
type Error struct {
	Kind    FailureKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsLimit reports whether err is a free-trial quota denial, which callers
// typically render as an upgrade prompt rather than a failure.
func IsLimit(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == FailLimit
}
