// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"context"

	"github.com/gogama/endpoint/request"
)

// A Transport performs the network call described by a request spec.
//
// Do returns either a response, whatever its status code, or an error
// if no response could be obtained. It must return promptly once ctx is
// done, and must honour spec.Timeout(). A nil response with a nil error
// is treated as ErrUnknown.
//
// Implementations must be safe for concurrent use. The HTTP transport
// in package transport is the usual implementation.
type Transport interface {
	Do(ctx context.Context, spec *request.Spec) (*request.Response, error)
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(ctx context.Context, spec *request.Spec) (*request.Response, error)

// Do calls f(ctx, spec).
func (f TransportFunc) Do(ctx context.Context, spec *request.Spec) (*request.Response, error) {
	return f(ctx, spec)
}
