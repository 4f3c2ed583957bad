// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"fmt"

	"github.com/gogama/endpoint/request"
)

// Decode returns a ParseFunc that decodes the response body into an R
// using c. An empty or absent body fails with ErrNoData; decoding
// errors from c are returned as is.
func Decode[R any](c Codec) ParseFunc[R] {
	return func(body []byte, _ int) (R, error) {
		var r R
		if len(body) == 0 {
			return r, ErrNoData
		}
		if err := c.Unmarshal(body, &r); err != nil {
			var zero R
			return zero, err
		}
		return r, nil
	}
}

// Discard is a ParseFunc that ignores the response and always
// succeeds.
func Discard(_ []byte, _ int) (struct{}, error) {
	return struct{}{}, nil
}

// Decoding returns an Endpoint that decodes the response body into an
// R. The codec defaults to JSON and may be set with WithCodec; Accept
// defaults to the codec's content type.
func Decoding[R any](method request.Method, url string, opts ...Option) (*Endpoint[R], error) {
	o := collect(opts)
	c := o.codecOrDefault()
	reqOpts := append([]request.Option{request.WithAccept(c.ContentType())}, o.request...)
	return assemble(method, url, Decode[R](c), reqOpts, o.status())
}

// DecodingWithBody is like Decoding but sends body, encoded with the
// codec, as the request body, and sets Content-Type accordingly.
func DecodingWithBody[R, B any](method request.Method, url string, body B, opts ...Option) (*Endpoint[R], error) {
	o := collect(opts)
	c := o.codecOrDefault()
	reqOpts, err := bodyOptions(c, body, o.request)
	if err != nil {
		return nil, err
	}
	return assemble(method, url, Decode[R](c), reqOpts, o.status())
}

// Void returns an Endpoint whose parse step always succeeds, whatever
// the body, once the status check passes. No Accept header is set
// unless given with WithAccept.
func Void(method request.Method, url string, opts ...Option) (*Endpoint[struct{}], error) {
	o := collect(opts)
	return assemble(method, url, Discard, o.request, o.status())
}

// VoidWithBody is like Void but sends body, encoded with the codec, as
// the request body. Accept and Content-Type default to the codec's
// content type.
func VoidWithBody[B any](method request.Method, url string, body B, opts ...Option) (*Endpoint[struct{}], error) {
	o := collect(opts)
	reqOpts, err := bodyOptions(o.codecOrDefault(), body, o.request)
	if err != nil {
		return nil, err
	}
	return assemble(method, url, Discard, reqOpts, o.status())
}

func bodyOptions(c Codec, body interface{}, rest []request.Option) ([]request.Option, error) {
	b, err := c.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("endpoint: encoding request body: %w", err)
	}
	reqOpts := make([]request.Option, 0, len(rest)+3)
	reqOpts = append(reqOpts, request.WithAccept(c.ContentType()), request.WithContentType(c.ContentType()))
	reqOpts = append(reqOpts, rest...)
	return append(reqOpts, request.WithBody(b)), nil
}

func assemble[R any](method request.Method, url string, parse ParseFunc[R], reqOpts []request.Option, accept StatusFunc) (*Endpoint[R], error) {
	spec, err := request.NewSpec(method, url, reqOpts...)
	if err != nil {
		return nil, err
	}
	return &Endpoint[R]{spec: spec, accept: accept, parse: parse}, nil
}
