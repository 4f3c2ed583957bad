// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"context"
	"errors"
	"net/http"

	"github.com/gogama/endpoint/request"
)

// A ParseFunc converts the body and status code of an accepted response
// into a value of type R. A nil or empty body means the response had no
// body.
//
// A ParseFunc must be pure and total: it performs no I/O and always
// returns either a value or an error.
type ParseFunc[R any] func(body []byte, statusCode int) (R, error)

// A StatusFunc reports whether a response status code is acceptable.
// The parse step of a descriptor only runs for acceptable status codes.
type StatusFunc func(statusCode int) bool

// Expect2xx accepts the status codes 200 through 299. It is the default
// StatusFunc of every descriptor.
func Expect2xx(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// ExpectCodes returns a StatusFunc accepting exactly the given codes.
func ExpectCodes(codes ...int) StatusFunc {
	set := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(statusCode int) bool {
		_, ok := set[statusCode]
		return ok
	}
}

// ExpectRange returns a StatusFunc accepting codes from lo to hi
// inclusive.
func ExpectRange(lo, hi int) StatusFunc {
	return func(statusCode int) bool {
		return statusCode >= lo && statusCode <= hi
	}
}

// An Endpoint describes an HTTP interaction that, when it succeeds,
// yields a value of type R. It bundles an immutable request.Spec with a
// StatusFunc deciding which responses are acceptable and a ParseFunc
// turning an acceptable response into an R.
//
// An Endpoint does no I/O. Run it with Load, Do, DoResponse or Publish
// against a Transport. Endpoints are immutable, so one Endpoint may be
// executed any number of times, concurrently, against any transport.
type Endpoint[R any] struct {
	spec   *request.Spec
	accept StatusFunc
	parse  ParseFunc[R]
}

// New returns an Endpoint for the given method and absolute URL, whose
// accepted responses are converted by parse.
//
// Options configure the request (header, query, body, timeout) and the
// accepted status codes; see Option. New returns an error if the URL is
// not a valid absolute URL or an option is invalid.
func New[R any](method request.Method, url string, parse ParseFunc[R], opts ...Option) (*Endpoint[R], error) {
	if parse == nil {
		return nil, errors.New(nilParseMsg)
	}
	o := collect(opts)
	spec, err := request.NewSpec(method, url, o.request...)
	if err != nil {
		return nil, err
	}
	return &Endpoint[R]{spec: spec, accept: o.status(), parse: parse}, nil
}

// MustNew is like New but panics on error. It is intended for
// descriptors built from static, known-good URLs, typically as package
// variables.
func MustNew[R any](method request.Method, url string, parse ParseFunc[R], opts ...Option) *Endpoint[R] {
	e, err := New(method, url, parse, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// FromSpec returns an Endpoint for an existing request spec.
//
// Without request options the Endpoint shares spec. Request options
// produce a new spec with the same method, URL, header, body and
// timeout, with the options applied on top; header fields already in
// spec take precedence over WithAccept and WithContentType.
func FromSpec[R any](spec *request.Spec, parse ParseFunc[R], opts ...Option) (*Endpoint[R], error) {
	if spec == nil {
		return nil, errors.New("endpoint: nil spec")
	}
	if parse == nil {
		return nil, errors.New(nilParseMsg)
	}
	o := collect(opts)
	if len(o.request) > 0 {
		base := []request.Option{request.WithTimeout(spec.Timeout())}
		derived, err := request.FromHTTPRequest(spec.ToRequest(context.Background()), append(base, o.request...)...)
		if err != nil {
			return nil, err
		}
		spec = derived
	}
	return &Endpoint[R]{spec: spec, accept: o.status(), parse: parse}, nil
}

// FromHTTPRequest returns an Endpoint describing r. The method, URL,
// header and body of r are copied into a new spec, and r's body, if
// any, is consumed. Options are applied on top of the copied request.
func FromHTTPRequest[R any](r *http.Request, parse ParseFunc[R], opts ...Option) (*Endpoint[R], error) {
	if parse == nil {
		return nil, errors.New(nilParseMsg)
	}
	o := collect(opts)
	spec, err := request.FromHTTPRequest(r, o.request...)
	if err != nil {
		return nil, err
	}
	return &Endpoint[R]{spec: spec, accept: o.status(), parse: parse}, nil
}

// Spec returns the request spec of e.
func (e *Endpoint[R]) Spec() *request.Spec {
	return e.spec
}

// AcceptsStatus reports whether e accepts a response with the given
// status code.
func (e *Endpoint[R]) AcceptsStatus(statusCode int) bool {
	return e.accept(statusCode)
}

// Parse runs the parse step of e directly, without a status check.
func (e *Endpoint[R]) Parse(body []byte, statusCode int) (R, error) {
	return e.parse(body, statusCode)
}

// String returns the method, URL and, if present, body of the request.
func (e *Endpoint[R]) String() string {
	return e.spec.String()
}

const nilParseMsg = "endpoint: nil parse function"
