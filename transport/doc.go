// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport provides Client, the HTTP transport for endpoints.

Client executes a request.Spec over an HTTPDoer, which is usually an
*http.Client, and satisfies the endpoint.Transport interface:

	cl := &transport.Client{}
	pets, err := endpoint.Do(ctx, cl, listPets)

Each execution gives every attempt the timeout chosen by the timeout
policy (by default the spec's own timeout), buffers the response body,
and consults the retry policy after each attempt. The default retry
policy, retry.Never, makes exactly one attempt.

Event handlers run at fixed points of an execution (see Event) and may
attach features to the client. The package provides four as plugins:

	cl.Handlers = transport.Install(nil,
		transport.NewLogger(log),
		transport.NewTracer(nil),
		metrics,
		transport.RequestID{},
	)

NewClient builds a Client from a Config, which LoadConfig reads from a
YAML file and ENDPOINT_* environment variables.
*/
package transport
