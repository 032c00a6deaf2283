package ai

import (
	"errors"
	"fmt"
)

// ParseError reports a completion reply that contained no recoverable JSON
// payload, or JSON lacking the required shape. Raw carries the full reply text
// for diagnostics.
type ParseError struct {
	Op  string
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse completion reply: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UpstreamError reports the completion service being unreachable, rejecting
// the request or responding with a non-2xx status.
type UpstreamError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: completion service returned status %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: completion service unavailable: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Recoverable reports whether an error may be masked by the fallback
// generator. Only gateway-level failures qualify; anything else surfaces to
// the caller untouched.
func Recoverable(err error) bool {
	var parseErr *ParseError
	var upstreamErr *UpstreamError
	return errors.As(err, &parseErr) || errors.As(err, &upstreamErr)
}
