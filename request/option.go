// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"net/http"
	"net/textproto"
	"sort"
	"time"
)

// An Option customizes a Spec under construction. Options are applied
// in the order given to NewSpec.
type Option func(*settings) error

type settings struct {
	accept      ContentType
	contentType ContentType
	fields      []field
	query       []Param
	body        []byte
	timeout     time.Duration
}

type field struct {
	name   string
	values []string
}

// WithAccept sets the Accept header to c.
func WithAccept(c ContentType) Option {
	return func(s *settings) error {
		s.accept = c
		return nil
	}
}

// WithContentType sets the Content-Type header to c.
func WithContentType(c ContentType) Option {
	return func(s *settings) error {
		s.contentType = c
		return nil
	}
}

// WithHeader sets the header field name to value, replacing any value
// set for the same field by WithAccept, WithContentType or an earlier
// header option.
func WithHeader(name, value string) Option {
	return func(s *settings) error {
		s.fields = append(s.fields, field{textproto.CanonicalMIMEHeaderKey(name), []string{value}})
		return nil
	}
}

// WithHeaders sets every field in m as if by WithHeader. Fields are
// applied in sorted key order.
func WithHeaders(m map[string]string) Option {
	return func(s *settings) error {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s.fields = append(s.fields, field{textproto.CanonicalMIMEHeaderKey(k), []string{m[k]}})
		}
		return nil
	}
}

// WithHeaderFields sets every field in h, keeping multiple values per
// field.
func WithHeaderFields(h http.Header) Option {
	return func(s *settings) error {
		keys := make([]string, 0, len(h))
		for k := range h {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			values := append([]string(nil), h[k]...)
			s.fields = append(s.fields, field{textproto.CanonicalMIMEHeaderKey(k), values})
		}
		return nil
	}
}

// WithBasicAuth sets the Authorization header to use HTTP Basic
// Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
func WithBasicAuth(username, password string) Option {
	return WithHeader("Authorization", "Basic "+basicAuth(username, password))
}

// WithQuery appends the query parameter name=value. Parameters are
// appended in the order given, after any query already on the URL.
func WithQuery(name, value string) Option {
	return func(s *settings) error {
		s.query = append(s.query, Param{name, value})
		return nil
	}
}

// WithQueryParams appends every parameter in m, in sorted key order.
func WithQueryParams(m map[string]string) Option {
	return func(s *settings) error {
		s.query = append(s.query, SortedParams(m)...)
		return nil
	}
}

// WithBody sets the request body from any type accepted by BodyBytes.
// The Spec keeps its own copy. The body is attached after the header
// is assembled.
func WithBody(body interface{}) Option {
	return func(s *settings) error {
		b, err := BodyBytes(body)
		if err != nil {
			return err
		}
		s.body = b
		return nil
	}
}

// WithTimeout sets the request timeout, which must be positive. The
// transport enforces it; if no timeout is given, DefaultTimeout
// applies.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) error {
		if d <= 0 {
			return fmt.Errorf("endpoint/request: non-positive timeout %s", d)
		}
		s.timeout = d
		return nil
	}
}
