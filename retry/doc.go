// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides opt-in retry policies for the HTTP transport.
//
// Descriptors and their execution adapters never retry: a failed call
// is reported to the caller once. A transport may still be configured
// to retry individual attempts before it reports an outcome:
//
//	decider := retry.Times(3).
//		And(retry.Idempotent).
//		And(retry.StatusCode(503).Or(retry.TransientErr))
//	waiter := retry.NewBackoff(retry.Backoff{
//		Base:   100 * time.Millisecond,
//		Max:    2 * time.Second,
//		Jitter: 1,
//	})
//	client := &transport.Client{RetryPolicy: retry.NewPolicy(decider, waiter)}
package retry
