// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/endpoint/request"
	"github.com/gogama/endpoint/transient"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
type Decider interface {
	Decide(e *request.Execution) bool
}

// DeciderFunc adapts an ordinary function to the Decider interface and
// adds the logical composition methods And and Or.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 3

// DefaultDecider allows up to DefaultTimes retries of idempotent
// requests that failed with a transient error or received status 429,
// 502, 503 or 504.
var DefaultDecider = Times(DefaultTimes).
	And(Idempotent).
	And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr retries if the current error is transient according to
// transient.Categorize. Cancellation is never transient.
var TransientErr DeciderFunc = func(e *request.Execution) bool {
	return transient.Categorize(e.Err).Transient()
}

// Idempotent retries only requests whose method is idempotent per
// RFC 7231: GET, HEAD, OPTIONS, TRACE, PUT and DELETE.
var Idempotent DeciderFunc = func(e *request.Execution) bool {
	if e.Spec == nil {
		return false
	}
	switch e.Spec.Method() {
	case request.GET, request.PUT, request.DELETE, "HEAD", "OPTIONS", "TRACE":
		return true
	default:
		return false
	}
}

// Decide calls f(e).
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And returns a decider that is true when both f and g are. g is not
// evaluated if f is false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or returns a decider that is true when either f or g is. g is not
// evaluated if f is true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times returns a decider allowing up to n retries.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before returns a decider allowing retries until d has elapsed since
// the execution started.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode returns a decider that retries when the most recent
// response has one of the status codes ss.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		for _, s := range ss2 {
			if e.StatusCode() == s {
				return true
			}
		}
		return false
	}
}
