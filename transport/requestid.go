// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/gogama/endpoint/request"
	"github.com/google/uuid"
)

// RequestIDHeader is the header field set by RequestID.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID is a plugin that stamps each execution with a random UUID
// and sends it in the X-Request-Id header of every attempt. Retries of
// one execution share the same ID. A spec that already sets the header
// keeps its own value.
type RequestID struct{}

// Register installs the request ID handlers into g.
func (RequestID) Register(g *HandlerGroup) {
	g.PushBack(BeforeExecutionStart, RequestID{})
	g.PushBack(BeforeAttempt, RequestID{})
}

// Handle assigns the ID on BeforeExecutionStart and sets the header on
// BeforeAttempt.
func (RequestID) Handle(evt Event, e *request.Execution) {
	switch evt {
	case BeforeExecutionStart:
		e.SetValue(requestIDKey{}, uuid.NewString())
	case BeforeAttempt:
		id, _ := e.Value(requestIDKey{}).(string)
		if id == "" || e.Request.Header.Get(RequestIDHeader) != "" {
			return
		}
		e.Request.Header.Set(RequestIDHeader, id)
	}
}

// ExecutionRequestID returns the ID assigned to e by RequestID, or the
// empty string.
func ExecutionRequestID(e *request.Execution) string {
	id, _ := e.Value(requestIDKey{}).(string)
	return id
}
