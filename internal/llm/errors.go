package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a completion failure at the transport boundary.
// Downstream code branches on the kind, never on error message text.
type ErrorKind string

const (
	// KindRateLimited marks quota/429-style failures. Callers should
	// surface wait-and-retry guidance to the user.
	KindRateLimited ErrorKind = "rate_limited"
	// KindTransient marks failures that a retry may resolve (network,
	// 5xx, truncated responses).
	KindTransient ErrorKind = "transient"
	// KindFatal marks failures that retrying cannot fix (bad API key,
	// missing model, malformed request).
	KindFatal ErrorKind = "fatal"
)

// CallError is the terminal error for a completion call, produced after
// the transport's own retry policy is exhausted.
type CallError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm call failed (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("llm call failed (%s): %s", e.Kind, e.Message)
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// IsRateLimited reports whether err is a rate-limited CallError.
func IsRateLimited(err error) bool {
	var callErr *CallError
	return errors.As(err, &callErr) && callErr.Kind == KindRateLimited
}

// KindOf returns the classification of err, defaulting to KindTransient
// for errors that did not originate at the transport boundary.
func KindOf(err error) ErrorKind {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Kind
	}
	return KindTransient
}
