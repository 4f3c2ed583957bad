// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/endpoint/request"
	"github.com/stretchr/testify/assert"
)

var (
	getSpec  = request.MustNewSpec(request.GET, "http://e.test/people")
	postSpec = request.MustNewSpec(request.POST, "http://e.test/people")
)

func TestDefaultDecider(t *testing.T) {
	t.Run("retryable status codes", func(t *testing.T) {
		for _, code := range []int{429, 502, 503, 504} {
			t.Run(fmt.Sprint(code), func(t *testing.T) {
				e := request.Execution{Spec: getSpec, Response: &http.Response{StatusCode: code}}
				for j := 0; j < DefaultTimes; j++ {
					e.Attempt = j
					assert.True(t, DefaultDecider(&e), "attempt %d", j)
				}
				e.Attempt = DefaultTimes
				assert.False(t, DefaultDecider(&e))
			})
		}
	})
	t.Run("non-retryable status codes", func(t *testing.T) {
		for _, code := range []int{200, 201, 204, 400, 401, 403, 404, 500} {
			t.Run(fmt.Sprint(code), func(t *testing.T) {
				e := request.Execution{Spec: getSpec, Response: &http.Response{StatusCode: code}}
				assert.False(t, DefaultDecider(&e))
			})
		}
	})
	t.Run("transient errors", func(t *testing.T) {
		for i, te := range transientErrs {
			t.Run(fmt.Sprintf("transientErrs[%d]", i), func(t *testing.T) {
				e := request.Execution{Spec: getSpec, Err: te}
				assert.True(t, DefaultDecider(&e))
				e.Attempt = DefaultTimes
				assert.False(t, DefaultDecider(&e))
			})
		}
	})
	t.Run("non-transient errors", func(t *testing.T) {
		for i, nte := range nonTransientErrs {
			t.Run(fmt.Sprintf("nonTransientErrs[%d]", i), func(t *testing.T) {
				e := request.Execution{Spec: getSpec, Err: nte}
				assert.False(t, DefaultDecider(&e))
			})
		}
	})
	t.Run("non-idempotent method", func(t *testing.T) {
		e := request.Execution{Spec: postSpec, Err: syscall.ECONNRESET}
		assert.False(t, DefaultDecider(&e))
	})
}

func TestTransientErr(t *testing.T) {
	for i, te := range transientErrs {
		t.Run(fmt.Sprintf("transientErrs[%d]", i), func(t *testing.T) {
			assert.True(t, TransientErr(&request.Execution{Err: te}))
			assert.True(t, TransientErr(&request.Execution{Err: &url.Error{Err: te}}))
		})
	}
	for i, nte := range nonTransientErrs {
		t.Run(fmt.Sprintf("nonTransientErrs[%d]", i), func(t *testing.T) {
			assert.False(t, TransientErr(&request.Execution{Err: nte}))
			assert.False(t, TransientErr(&request.Execution{Err: &url.Error{Err: nte}}))
		})
	}
}

func TestIdempotent(t *testing.T) {
	testCases := []struct {
		method   request.Method
		expected bool
	}{
		{request.GET, true},
		{request.PUT, true},
		{request.DELETE, true},
		{"HEAD", true},
		{"OPTIONS", true},
		{request.POST, false},
		{request.PATCH, false},
	}
	for _, testCase := range testCases {
		t.Run(string(testCase.method), func(t *testing.T) {
			s := request.MustNewSpec(testCase.method, "http://e.test")
			assert.Equal(t, testCase.expected, Idempotent(&request.Execution{Spec: s}))
		})
	}
	t.Run("no spec", func(t *testing.T) {
		assert.False(t, Idempotent(&request.Execution{}))
	})
}

func TestDeciderFunc_AndOr(t *testing.T) {
	yes := DeciderFunc(func(*request.Execution) bool { return true })
	no := DeciderFunc(func(*request.Execution) bool { return false })
	e := &request.Execution{}
	assert.True(t, yes.And(yes).Decide(e))
	assert.False(t, yes.And(no).Decide(e))
	assert.False(t, no.And(yes).Decide(e))
	assert.True(t, yes.Or(no).Decide(e))
	assert.True(t, no.Or(yes).Decide(e))
	assert.False(t, no.Or(no).Decide(e))
}

func TestTimes(t *testing.T) {
	assert.False(t, Times(0)(&request.Execution{}))
	one := Times(1)
	assert.True(t, one(&request.Execution{}))
	assert.False(t, one(&request.Execution{Attempt: 1}))
	two := Times(2)
	assert.True(t, two(&request.Execution{Attempt: 1}))
	assert.False(t, two(&request.Execution{Attempt: 2}))
}

func TestBefore(t *testing.T) {
	e := request.Execution{Start: time.Now(), Attempt: 20}
	before := Before(time.Minute)
	assert.True(t, before(&e))
	e.End = e.Start.Add(2 * time.Minute)
	assert.False(t, before(&e))
}

func TestStatusCode(t *testing.T) {
	empty := StatusCode()
	one := StatusCode(602)
	assert.False(t, empty(&request.Execution{}))
	assert.False(t, one(&request.Execution{}))
	r := http.Response{}
	e := request.Execution{Response: &r}
	assert.False(t, one(&e))
	r.StatusCode = 602
	assert.True(t, one(&e))
	two := StatusCode(509, 602)
	assert.True(t, two(&e))
	r.StatusCode = 508
	assert.False(t, two(&e))
}

var (
	transientErrs = []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ETIMEDOUT,
		context.DeadlineExceeded,
	}
	nonTransientErrs = []error{
		nil,
		errors.New("ain't transient"),
		syscall.EHOSTUNREACH,
		context.Canceled,
	}
)
