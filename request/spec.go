// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"
)

// DefaultTimeout is the timeout given to a Spec when none is supplied
// with WithTimeout.
const DefaultTimeout = 10 * time.Second

const (
	nilCtxMsg = "endpoint/request: nil context"
	nilURLMsg = "endpoint/request: nil URL"
)

// A Method is an HTTP request method.
type Method string

// The request methods a Spec is normally built with. Other valid
// RFC 7230 tokens are accepted as extension methods.
const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	PATCH  Method = "PATCH"
	DELETE Method = "DELETE"
)

// A Spec is an immutable HTTP request specification: method, absolute
// URL with any query parameters already merged in, header, body and
// timeout.
//
// A Spec is built once, by NewSpec or FromHTTPRequest, and is never
// modified afterwards. Accessors return copies, so a single Spec may be
// shared freely between descriptors and goroutines.
type Spec struct {
	method  Method
	url     *urlpkg.URL
	header  http.Header
	body    []byte
	timeout time.Duration
}

// NewSpec returns a new Spec for the given method and absolute URL,
// customized by opts.
//
// The header is assembled in a fixed order. First Accept and
// Content-Type are set from WithAccept and WithContentType. Then the
// header fields given by WithHeader, WithHeaders and WithBasicAuth are
// applied in the order supplied, overwriting any earlier value for the
// same field, including Accept and Content-Type. The body is attached
// last, after the header is final.
//
// Query parameters given by WithQuery and WithQueryParams are appended
// to any query already present on url, which is preserved verbatim.
//
// An empty method means GET. NewSpec returns an error if the method is
// not a valid token, if url does not parse as an absolute URL, or if an
// option is invalid.
func NewSpec(method Method, url string, opts ...Option) (*Spec, error) {
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("endpoint/request: URL %q is not absolute", url)
	}
	return build(method, u, opts)
}

// MustNewSpec is like NewSpec but panics if NewSpec returns an error.
// It is intended for specs built from static, known-good URLs.
func MustNewSpec(method Method, url string, opts ...Option) *Spec {
	s, err := NewSpec(method, url, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromHTTPRequest returns a new Spec describing r. The method, URL,
// header and body of r are copied, and r's body, if any, is read to the
// end and closed. Options are applied on top, exactly as for NewSpec,
// with the header fields of r treated as caller-supplied fields.
func FromHTTPRequest(r *http.Request, opts ...Option) (*Spec, error) {
	if r == nil {
		return nil, errors.New("endpoint/request: nil http.Request")
	}
	if r.URL == nil {
		return nil, errors.New(nilURLMsg)
	}
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		b, err := BodyBytes(r.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}
	u := *r.URL
	base := []Option{WithHeaderFields(r.Header)}
	if body != nil {
		base = append(base, WithBody(body))
	}
	return build(Method(r.Method), &u, append(base, opts...))
}

func build(method Method, u *urlpkg.URL, opts []Option) (*Spec, error) {
	if method == "" {
		method = GET
	}
	if !validMethod(string(method)) {
		return nil, fmt.Errorf("endpoint/request: invalid method %q", method)
	}
	var s settings
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}
	u.Host = removeEmptyPort(u.Host)
	appendQuery(u, s.query)

	h := make(http.Header)
	if !s.accept.IsZero() {
		h.Set("Accept", s.accept.String())
	}
	if !s.contentType.IsZero() {
		h.Set("Content-Type", s.contentType.String())
	}
	for _, f := range s.fields {
		h.Del(f.name)
		for _, v := range f.values {
			h.Add(f.name, v)
		}
	}

	timeout := s.timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Spec{
		method:  method,
		url:     u,
		header:  h,
		body:    s.body,
		timeout: timeout,
	}, nil
}

// Method returns the HTTP method.
func (s *Spec) Method() Method {
	return s.method
}

// URL returns a copy of the target URL, including merged query
// parameters.
func (s *Spec) URL() *urlpkg.URL {
	u := *s.url
	if s.url.User != nil {
		user := *s.url.User
		u.User = &user
	}
	return &u
}

// Header returns a copy of the request header.
func (s *Spec) Header() http.Header {
	return s.header.Clone()
}

// Body returns a copy of the request body, or nil if the spec has no
// body.
func (s *Spec) Body() []byte {
	if s.body == nil {
		return nil
	}
	return append([]byte(nil), s.body...)
}

// HasBody reports whether the spec carries a non-empty body.
func (s *Spec) HasBody() bool {
	return len(s.body) > 0
}

// Timeout returns the request timeout. It is always positive.
func (s *Spec) Timeout() time.Duration {
	return s.timeout
}

// String returns the method, URL and, if present, body of the spec,
// separated by spaces.
func (s *Spec) String() string {
	parts := []string{string(s.method), s.url.String()}
	if len(s.body) > 0 {
		parts = append(parts, string(s.body))
	}
	return strings.Join(parts, " ")
}

// ToRequest creates an HTTP request corresponding to the spec. The
// context of the new request is set to ctx, which may not be nil.
//
// Each call returns a request with its own URL, header and body reader,
// so the caller may modify the request, for example to sign it, without
// affecting the spec.
func (s *Spec) ToRequest(ctx context.Context) *http.Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	u := s.URL()
	r := &http.Request{
		Method:     string(s.method),
		URL:        u,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     s.Header(),
		Host:       u.Host,
	}
	if len(s.body) > 0 {
		body := s.body
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		r.ContentLength = int64(len(body))
	}
	return r.WithContext(ctx)
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

func validMethod(method string) bool {
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !isTokenRune(r)
}

// isTokenRune classifies a rune as being valid for a token as defined
// in https://tools.ietf.org/html/rfc7230#section-3.2.6
func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	default:
		return strings.ContainsRune("!#$%&'*+-.^_`|~", r)
	}
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort strips the empty port in ":port" to "" as mandated
// by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
