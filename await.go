// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"context"

	"github.com/gogama/endpoint/request"
)

// Do executes e against t, blocking until the result is available.
// Canceling ctx cancels the transport call, in which case Do returns a
// *TransportError wrapping the context's error.
//
// The descriptor's status check runs before its parse step, and the
// parse step runs at most once. Do never retries.
func Do[R any](ctx context.Context, t Transport, e *Endpoint[R]) (R, error) {
	r, _, err := DoResponse(ctx, t, e)
	return r, err
}

// DoResponse is like Do but also returns the raw response, which is
// nil if the transport call failed.
func DoResponse[R any](ctx context.Context, t Transport, e *Endpoint[R]) (R, *request.Response, error) {
	mustArgs(t, e)
	return execute(ctx, t, e)
}
