// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"time"

	"github.com/gogama/endpoint/request"
)

// An Option configures an Endpoint under construction.
//
// Request options are applied to the underlying request.Spec in the
// order given. Accept and Content-Type are always set before the
// caller's header fields, so WithHeader can overwrite them.
type Option func(*options)

type options struct {
	request []request.Option
	accept  StatusFunc
	codec   Codec
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) status() StatusFunc {
	if o.accept == nil {
		return Expect2xx
	}
	return o.accept
}

func (o *options) codecOrDefault() Codec {
	if o.codec == nil {
		return JSON
	}
	return o.codec
}

// WithRequestOption applies an arbitrary request option to the spec.
func WithRequestOption(opt request.Option) Option {
	return func(o *options) {
		o.request = append(o.request, opt)
	}
}

// WithAccept sets the Accept header.
func WithAccept(c request.ContentType) Option {
	return WithRequestOption(request.WithAccept(c))
}

// WithContentType sets the Content-Type header.
func WithContentType(c request.ContentType) Option {
	return WithRequestOption(request.WithContentType(c))
}

// WithHeader sets a header field, overwriting Accept or Content-Type if
// name is one of those.
func WithHeader(name, value string) Option {
	return WithRequestOption(request.WithHeader(name, value))
}

// WithHeaders sets every header field in m.
func WithHeaders(m map[string]string) Option {
	return WithRequestOption(request.WithHeaders(m))
}

// WithQuery appends a query parameter to the URL.
func WithQuery(name, value string) Option {
	return WithRequestOption(request.WithQuery(name, value))
}

// WithQueryParams appends every parameter in m, in sorted name order.
func WithQueryParams(m map[string]string) Option {
	return WithRequestOption(request.WithQueryParams(m))
}

// WithBody sets a raw request body. See request.BodyBytes for the
// accepted types.
func WithBody(body interface{}) Option {
	return WithRequestOption(request.WithBody(body))
}

// WithTimeout sets the request timeout honoured by the transport.
func WithTimeout(d time.Duration) Option {
	return WithRequestOption(request.WithTimeout(d))
}

// WithExpectedStatus replaces the default Expect2xx status check.
func WithExpectedStatus(f StatusFunc) Option {
	return func(o *options) {
		o.accept = f
	}
}

// WithCodec sets the codec used by Decoding, DecodingWithBody and
// VoidWithBody. The default is JSON. Other constructors ignore it.
func WithCodec(c Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}
