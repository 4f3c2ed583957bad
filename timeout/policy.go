// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/endpoint/request"
)

// A Policy decides the timeout of each HTTP request attempt made by the
// HTTP transport (transport.Client).
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout for the next request attempt in the
	// execution e.
	Timeout(e *request.Execution) time.Duration
}

// PolicyFunc adapts an ordinary function to the Policy interface.
type PolicyFunc func(e *request.Execution) time.Duration

// Timeout calls f(e).
func (f PolicyFunc) Timeout(e *request.Execution) time.Duration {
	return f(e)
}

// FromSpec is the default timeout policy. Every attempt gets the
// timeout carried by the request spec being executed, which is
// request.DefaultTimeout unless the spec was built with
// request.WithTimeout.
var FromSpec Policy = PolicyFunc(func(e *request.Execution) time.Duration {
	if e.Spec == nil {
		return request.DefaultTimeout
	}
	return e.Spec.Timeout()
})

// DefaultPolicy is the timeout policy used when none is configured.
var DefaultPolicy = FromSpec

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed returns a policy that gives every attempt the timeout d,
// ignoring the spec's own timeout.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive returns a policy that lengthens the timeout after an attempt
// times out.
//
// Parameter usual is the timeout for the first attempt and for any
// retry whose preceding attempt did not time out. If the preceding
// attempt timed out and it was the n-th timeout of the execution,
// after[n-1] is used, or the last element of after if there are fewer.
//
// 	p := Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// Adaptive is only useful together with a retry policy on the
// transport, since descriptors themselves never retry.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	if !e.PrevAttemptTimeout {
		return p[0]
	}

	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
