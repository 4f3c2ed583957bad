// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewSpec(t *testing.T) {
	testCases := []struct {
		name    string
		method  Method
		url     string
		opts    func(*testing.T) []Option
		asserts func(*testing.T, *Spec, error)
	}{
		{
			name: "empty method means GET",
			url:  "https://foo.com",
			asserts: func(t *testing.T, s *Spec, err error) {
				require.NoError(t, err)
				assert.Equal(t, GET, s.Method())
				assert.Equal(t, "https://foo.com", s.URL().String())
				assert.Nil(t, s.Body())
				assert.False(t, s.HasBody())
				assert.Equal(t, DefaultTimeout, s.Timeout())
				assert.Empty(t, s.Header())
			},
		},
		{
			name:   "fake valid extension method",
			method: "Fake",
			url:    "http://baz.com",
			asserts: func(t *testing.T, s *Spec, err error) {
				require.NoError(t, err)
				assert.Equal(t, Method("Fake"), s.Method())
			},
		},
		{
			name:   "remove empty port",
			method: GET,
			url:    "http://ham:",
			asserts: func(t *testing.T, s *Spec, err error) {
				require.NoError(t, err)
				assert.Equal(t, "ham", s.URL().Host)
			},
		},
		{
			name:   "accept and content type",
			method: POST,
			url:    "http://eggs.com",
			opts: func(*testing.T) []Option {
				return []Option{WithAccept(JSON), WithContentType(XML)}
			},
			asserts: func(t *testing.T, s *Spec, err error) {
				require.NoError(t, err)
				assert.Equal(t, "application/json", s.Header().Get("Accept"))
				assert.Equal(t, "application/xml", s.Header().Get("Content-Type"))
			},
		},
		{
			name:   "caller header overrides accept and content type",
			method: PUT,
			url:    "http://eggs.com",
			opts: func(*testing.T) []Option {
				return []Option{
					WithHeaders(map[string]string{
						"accept":       "text/csv",
						"Content-Type": "text/html",
						"X-Foo":        "bar",
					}),
					WithAccept(JSON),
					WithContentType(Text),
				}
			},
			asserts: func(t *testing.T, s *Spec, err error) {
				require.NoError(t, err)
				h := s.Header()
				assert.Equal(t, []string{"text/csv"}, h["Accept"])
				assert.Equal(t, []string{"text/html"}, h["Content-Type"])
				assert.Equal(t, "bar", h.Get("X-Foo"))
			},
		},
		{
			name:   "last header write wins",
			method: GET,
			url:    "http://spam.com",
			opts: func(*testing.T) []Option {
				return []Option{WithHeader("X-Foo", "bar"), WithHeader("x-foo", "baz")}
			},
			asserts: func(t *testing.T, s *Spec, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"baz"}, s.Header()["X-Foo"])
			},
		},
		{
			name:   "basic auth",
			method: GET,
			url:    "http://superdoopersecure.com",
			opts: func(*testing.T) []Option {
				return []Option{WithBasicAuth("patsy", "password")}
			},
			asserts: func(t *testing.T, s *Spec, err error) {
				require.NoError(t, err)
				r, _ := http.NewRequest("GET", "http://superdoopersecure.com", nil)
				r.SetBasicAuth("patsy", "password")
				assert.Equal(t, r.Header["Authorization"], s.Header()["Authorization"])
			},
		},
		{
			name:   "body and timeout",
			method: PATCH,
			url:    "http://bar.com/x",
			opts: func(*testing.T) []Option {
				return []Option{WithBody(strings.NewReader("hello")), WithTimeout(time.Second)}
			},
			asserts: func(t *testing.T, s *Spec, err error) {
				require.NoError(t, err)
				assert.Equal(t, []byte("hello"), s.Body())
				assert.True(t, s.HasBody())
				assert.Equal(t, time.Second, s.Timeout())
				assert.Equal(t, "PATCH http://bar.com/x hello", s.String())
			},
		},
		{
			name:   "error invalid method",
			method: "\tGET",
			url:    "http://eggs.com",
			asserts: func(t *testing.T, s *Spec, err error) {
				assert.Nil(t, s)
				assert.EqualError(t, err, `endpoint/request: invalid method "\tGET"`)
			},
		},
		{
			name:   "error invalid URL",
			method: GET,
			url:    ":::",
			asserts: func(t *testing.T, s *Spec, err error) {
				assert.Nil(t, s)
				assert.Error(t, err)
			},
		},
		{
			name:   "error relative URL",
			method: GET,
			url:    "people/1",
			asserts: func(t *testing.T, s *Spec, err error) {
				assert.Nil(t, s)
				assert.EqualError(t, err, `endpoint/request: URL "people/1" is not absolute`)
			},
		},
		{
			name:   "error zero timeout",
			method: GET,
			url:    "http://eggs.com",
			opts: func(*testing.T) []Option {
				return []Option{WithTimeout(0)}
			},
			asserts: func(t *testing.T, s *Spec, err error) {
				assert.Nil(t, s)
				assert.EqualError(t, err, "endpoint/request: non-positive timeout 0s")
			},
		},
		{
			name:   "error invalid body type",
			method: POST,
			url:    "http://spam.com",
			opts: func(*testing.T) []Option {
				return []Option{WithBody(map[string]int{})}
			},
			asserts: func(t *testing.T, s *Spec, err error) {
				assert.Nil(t, s)
				assert.EqualError(t, err, "endpoint/request: invalid body type map[string]int "+
					"(use nil, string, []byte, json.RawMessage or io.Reader)")
			},
		},
		{
			name:   "error body read",
			method: PUT,
			url:    "http://hello.com",
			opts: func(t *testing.T) []Option {
				m := &mockReadCloser{}
				m.Test(t)
				m.On("Read", mock.AnythingOfType("[]uint8")).
					Return(5, errors.New("problematic")).
					Once()
				return []Option{WithBody(m)}
			},
			asserts: func(t *testing.T, s *Spec, err error) {
				assert.Nil(t, s)
				assert.EqualError(t, err, "endpoint/request: reading body: problematic")
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var opts []Option
			if testCase.opts != nil {
				opts = testCase.opts(t)
			}
			s, err := NewSpec(testCase.method, testCase.url, opts...)
			testCase.asserts(t, s, err)
		})
	}
}

func TestNewSpec_Query(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		opts     []Option
		expected string
	}{
		{
			name:     "no params",
			url:      "http://e.test/x",
			expected: "http://e.test/x",
		},
		{
			name:     "no params keeps existing query",
			url:      "http://e.test/x?b=2&a=1",
			expected: "http://e.test/x?b=2&a=1",
		},
		{
			name:     "no existing query",
			url:      "http://e.test/people",
			opts:     []Option{WithQuery("page", "2"), WithQuery("sort", "name")},
			expected: "http://e.test/people?page=2&sort=name",
		},
		{
			name:     "appended after existing query",
			url:      "http://e.test/x?abc=def",
			opts:     []Option{WithQuery("foo", "bar bar")},
			expected: "http://e.test/x?abc=def&foo=bar%20bar",
		},
		{
			name:     "existing query preserved verbatim",
			url:      "http://e.test/x?z=1&a=%41",
			opts:     []Option{WithQuery("m", "2")},
			expected: "http://e.test/x?z=1&a=%41&m=2",
		},
		{
			name:     "reserved characters escaped",
			url:      "http://e.test/x",
			opts:     []Option{WithQuery("q", "a+b&c=d/é")},
			expected: "http://e.test/x?q=a%2Bb%26c%3Dd%2F%C3%A9",
		},
		{
			name:     "map params sorted by name",
			url:      "http://e.test/x?abc=def",
			opts:     []Option{WithQueryParams(map[string]string{"foo": "bar bar", "baz": "1"})},
			expected: "http://e.test/x?abc=def&baz=1&foo=bar%20bar",
		},
		{
			name:     "duplicate names kept in order",
			url:      "http://e.test/x",
			opts:     []Option{WithQuery("a", "1"), WithQuery("a", "2")},
			expected: "http://e.test/x?a=1&a=2",
		},
		{
			name:     "empty query marker",
			url:      "http://e.test/x?",
			opts:     []Option{WithQuery("a", "1")},
			expected: "http://e.test/x?a=1",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			s, err := NewSpec(GET, testCase.url, testCase.opts...)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, s.URL().String())
			_, err = url.Parse(s.URL().String())
			assert.NoError(t, err)
		})
	}
}

func TestMustNewSpec(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := MustNewSpec(DELETE, "http://managemystuff.com/stuff/1")
		assert.Equal(t, DELETE, s.Method())
	})
	t.Run("invalid", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewSpec(GET, "not a url")
		})
	})
}

func TestSpec_Immutable(t *testing.T) {
	s := MustNewSpec(POST, "http://u:p@e.test/x", WithHeader("X-Foo", "bar"), WithBody("abc"))
	u := s.URL()
	u.Path = "/changed"
	u.User = url.User("mallory")
	h := s.Header()
	h.Set("X-Foo", "changed")
	b := s.Body()
	b[0] = 'z'
	assert.Equal(t, "http://u:p@e.test/x", s.URL().String())
	assert.Equal(t, "bar", s.Header().Get("X-Foo"))
	assert.Equal(t, []byte("abc"), s.Body())
}

func TestFromHTTPRequest(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		s, err := FromHTTPRequest(nil)
		assert.Nil(t, s)
		assert.Error(t, err)
	})
	t.Run("copies request", func(t *testing.T) {
		r, err := http.NewRequest("PUT", "http://e.test/x?a=1", strings.NewReader("body"))
		require.NoError(t, err)
		r.Header.Set("X-Foo", "bar")
		s, err := FromHTTPRequest(r, WithQuery("b", "2"), WithTimeout(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, PUT, s.Method())
		assert.Equal(t, "http://e.test/x?a=1&b=2", s.URL().String())
		assert.Equal(t, "http://e.test/x?a=1", r.URL.String())
		assert.Equal(t, "bar", s.Header().Get("X-Foo"))
		assert.Equal(t, []byte("body"), s.Body())
		assert.Equal(t, time.Minute, s.Timeout())
	})
	t.Run("no body", func(t *testing.T) {
		r, err := http.NewRequest("GET", "http://e.test/x", nil)
		require.NoError(t, err)
		s, err := FromHTTPRequest(r)
		require.NoError(t, err)
		assert.Nil(t, s.Body())
		assert.Equal(t, "GET http://e.test/x", s.String())
	})
}

func TestSpec_ToRequest(t *testing.T) {
	t.Run("nil context", func(t *testing.T) {
		s := MustNewSpec(GET, "http://e.test")
		assert.PanicsWithValue(t, nilCtxMsg, func() {
			s.ToRequest(nil)
		})
	})
	t.Run("context", func(t *testing.T) {
		s := MustNewSpec(PUT, "http://e.test", WithBody("body"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		r := s.ToRequest(ctx)
		require.NotNil(t, r)
		assert.Same(t, ctx, r.Context())
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "e.test", r.Host)
	})
	t.Run("body empty", func(t *testing.T) {
		testCases := []struct {
			name string
			body interface{}
		}{
			{name: "nil", body: nil},
			{name: "empty string", body: ""},
			{name: "empty byte slice", body: []byte{}},
			{name: "empty reader", body: strings.NewReader("")},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				s := MustNewSpec(DELETE, "http://e.test", WithBody(testCase.body))
				r := s.ToRequest(context.Background())
				assert.Nil(t, r.Body)
				assert.Nil(t, r.GetBody)
				assert.Equal(t, int64(0), r.ContentLength)
			})
		}
	})
	t.Run("body not empty", func(t *testing.T) {
		s := MustNewSpec(POST, "http://e.test", WithBody("foo"))
		r := s.ToRequest(context.Background())
		assert.Equal(t, int64(3), r.ContentLength)
		require.NotNil(t, r.Body)
		require.NotNil(t, r.GetBody)
		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, "foo", string(b))
		rc, err := r.GetBody()
		require.NoError(t, err)
		b, err = io.ReadAll(rc)
		assert.NoError(t, err)
		assert.Equal(t, "foo", string(b))
	})
	t.Run("request changes do not leak", func(t *testing.T) {
		s := MustNewSpec(GET, "http://e.test/x", WithHeader("X-Foo", "bar"))
		r := s.ToRequest(context.Background())
		r.Header.Set("X-Foo", "baz")
		r.URL.Path = "/y"
		assert.Equal(t, "bar", s.Header().Get("X-Foo"))
		assert.Equal(t, "http://e.test/x", s.URL().String())
	})
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/plain", Text.String())
	assert.Equal(t, "application/json", JSON.String())
	assert.Equal(t, "application/xml", XML.String())
	assert.Equal(t, "application/vnd.api+json", CustomContentType("application/vnd.api+json").String())
	assert.True(t, ContentType{}.IsZero())
	assert.False(t, JSON.IsZero())
}
