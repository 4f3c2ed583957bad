// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/endpoint/transient"
)

// An Execution holds the state of one transport call for a Spec.
//
// The HTTP transport creates an Execution when a call starts and updates
// it as the call progresses: when an attempt is sent, when a response
// arrives, when the body is read, and when the call ends. Timeout and
// retry policies and event handlers receive the Execution and may attach
// their own data with SetValue, but should otherwise treat its exported
// fields as read-only. Handlers may make reasonable changes to Request
// before it is sent, for example to add a tracing or request ID header.
type Execution struct {
	// Spec is the request specification being executed. It is never
	// nil.
	Spec *Spec

	// Start is the time the execution started. It is set once, when
	// the execution starts.
	Start time.Time

	// End is the time the execution ended, or the zero time while the
	// execution is in flight.
	End time.Time

	// Attempt is the zero-based number of the current HTTP request
	// attempt. It is zero unless a retry policy has been installed on
	// the transport.
	Attempt int

	// AttemptTimeouts counts the attempts that ended in a timeout.
	// Cancellation or expiry of the caller's context does not count.
	AttemptTimeouts int

	// PrevAttemptTimeout indicates whether the attempt before the
	// current one ended in a timeout. It is false during the first
	// attempt.
	PrevAttemptTimeout bool

	// Request is the HTTP request for the current attempt, or the last
	// attempt once the execution has ended.
	Request *http.Request

	// Response is the HTTP response to the most recent attempt. It is
	// nil if the attempt failed or has not yet completed.
	Response *http.Response

	// Err is the error from the most recent attempt, or nil. Once the
	// execution has ended it holds the error returned to the caller.
	Err error

	// Body is the response body read after the most recent attempt.
	// It should be treated as invalid unless Err is nil.
	Body []byte

	data context.Context
}

// StatusCode returns the status code of the most recent HTTP response,
// or 0 if there is none.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// Header returns the header of the most recent HTTP response, or a nil
// header if there is none. A nil header is safe for reading.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		return nil
	}
	return e.Response.Header
}

// Result returns the transport-level result of the execution: the
// status code and header of the most recent response along with the
// body read from it. It returns nil if there is no response.
func (e *Execution) Result() *Response {
	if e.Response == nil {
		return nil
	}
	return &Response{
		StatusCode: e.Response.StatusCode,
		Header:     e.Response.Header,
		Body:       e.Body,
	}
}

// Duration returns the time elapsed between Start and End, or between
// Start and now if the execution is still running. It is zero before
// the execution starts.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return 0
	} else if !e.Ended() {
		return time.Since(e.Start)
	}
	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the execution has ended. Once it has, no
// field of the execution changes again.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout indicates whether Err currently holds a timeout error.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue stores arbitrary data on the execution. The key follows the
// rules of the key parameter to context.WithValue: it must be non-nil
// and comparable, and should be of an unexported type to avoid
// collisions between handlers.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}
	e.data = context.WithValue(ctx, key, value)
}

// Value returns the value stored for key by SetValue, or nil.
func (e *Execution) Value(key interface{}) interface{} {
	if e.data == nil {
		return nil
	}
	return e.data.Value(key)
}
