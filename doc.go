// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package endpoint provides typed descriptors for HTTP interactions. An
Endpoint[R] declares a request that, when it succeeds, yields a value of
type R, without saying how the request is sent or how the caller waits
for it.

Declare an endpoint that decodes a JSON list of people:

	type Person struct {
		Name string `json:"name"`
	}

	people, err := endpoint.Decoding[[]Person](request.GET, "https://example.com/people",
		endpoint.WithQuery("team", "blue sky"))
	...

Derive new endpoints with Map and FlatMap. They share the request and
status check of the original and transform only its result:

	names := endpoint.Map(people, func(ps []Person) []string { ... })

Run an endpoint against a Transport in any of three styles. All three
apply the same pipeline: a transport failure becomes a *TransportError,
an uninterpretable response becomes ErrUnknown, a rejected status code
becomes a *WrongStatusCodeError without the body being parsed, and only
then does the parse step run.

	client := &transport.Client{}

	// Awaitable.
	ps, err := endpoint.Do(ctx, client, people)

	// Callback.
	task := endpoint.Load(ctx, client, people, func(ps []Person, err error) { ... })
	task.Cancel()

	// Push stream, with demand and cancellation.
	sub := endpoint.Sink(endpoint.Publish(ctx, client, people),
		func(ps []Person) { ... },
		func(err error) { ... })
	sub.Cancel()

Use Classify to compare errors by kind regardless of the execution
style that produced them. Descriptors never retry; retries, timeouts,
logging, tracing and metrics are features of the transport.
*/
package endpoint
