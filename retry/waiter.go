// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gogama/endpoint/request"
)

// A Waiter says how long the HTTP transport waits before retrying a
// failed attempt. It is only consulted after the Decider has chosen to
// retry.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultWaiter waits a random time between zero and a ceiling that
// starts at 50 milliseconds and doubles with each attempt, up to one
// second.
var DefaultWaiter = NewBackoff(Backoff{
	Base:   50 * time.Millisecond,
	Max:    time.Second,
	Jitter: 1,
})

// NewFixedWaiter returns a Waiter with a constant wait of d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// Backoff configures an exponential backoff Waiter.
//
// Before the retry that follows attempt n (zero-based), the ceiling is
// min(Base * Factor**n, Max). The wait is the ceiling less a random
// share of it no larger than Jitter: with Jitter 0 the waiter always
// waits the full ceiling, and with Jitter 1 it waits anywhere between
// zero and the ceiling.
type Backoff struct {
	// Base is the ceiling for the first retry. It must be positive.
	Base time.Duration
	// Max caps the ceiling. It must be at least Base.
	Max time.Duration
	// Factor multiplies the ceiling after each attempt. Zero means 2.
	// Otherwise it must be at least 1.
	Factor float64
	// Jitter is the random share of the ceiling, from 0 to 1.
	Jitter float64
	// Seed seeds the random source. Zero seeds it from the clock.
	Seed uint64
}

// NewBackoff returns a Waiter implementing b. It panics if b is
// invalid.
func NewBackoff(b Backoff) Waiter {
	if b.Base < 1 {
		panic("endpoint/retry: base must be positive")
	}
	if b.Max < b.Base {
		panic("endpoint/retry: max must be at least base")
	}
	if b.Factor == 0 {
		b.Factor = 2
	} else if b.Factor < 1 || math.IsInf(b.Factor, 0) || math.IsNaN(b.Factor) {
		panic("endpoint/retry: factor must be at least 1")
	}
	if !(b.Jitter >= 0 && b.Jitter <= 1) {
		panic("endpoint/retry: jitter must be between 0 and 1")
	}
	seed := b.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &backoffWaiter{
		Backoff: b,
		rand:    rand.New(rand.NewPCG(seed, seed>>32|seed<<32)),
	}
}

type backoffWaiter struct {
	Backoff
	lock sync.Mutex
	rand *rand.Rand
}

func (w *backoffWaiter) Wait(e *request.Execution) time.Duration {
	ceil := w.ceiling(e.Attempt)
	if w.Jitter == 0 {
		return ceil
	}
	w.lock.Lock()
	r := w.rand.Float64()
	w.lock.Unlock()
	return ceil - time.Duration(float64(ceil)*w.Jitter*r)
}

func (w *backoffWaiter) ceiling(attempt int) time.Duration {
	c := float64(w.Base) * math.Pow(w.Factor, float64(attempt))
	if c >= float64(w.Max) || math.IsInf(c, 0) {
		return w.Max
	}
	return time.Duration(c)
}
