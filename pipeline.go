// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"context"

	"github.com/gogama/endpoint/request"
)

// complete turns a transport outcome into the result of executing e.
// Every adapter funnels through here:
//
//  1. a transport error becomes a *TransportError;
//  2. a missing response or invalid status code becomes ErrUnknown;
//  3. an unacceptable status code becomes a *WrongStatusCodeError;
//  4. otherwise the result of e's parse step is returned.
func complete[R any](e *Endpoint[R], resp *request.Response, err error) (R, error) {
	var zero R
	if err != nil {
		return zero, &TransportError{
			Method: e.spec.Method(),
			URL:    e.spec.URL().String(),
			Err:    err,
		}
	}
	if resp == nil || resp.StatusCode < 100 || resp.StatusCode > 999 {
		return zero, ErrUnknown
	}
	if !e.accept(resp.StatusCode) {
		return zero, &WrongStatusCodeError{StatusCode: resp.StatusCode, Response: resp}
	}
	return e.parse(resp.Body, resp.StatusCode)
}

// execute makes one transport call for e and completes it.
func execute[R any](ctx context.Context, t Transport, e *Endpoint[R]) (R, *request.Response, error) {
	resp, err := t.Do(ctx, e.spec)
	r, err := complete(e, resp, err)
	return r, resp, err
}

func mustArgs[R any](t Transport, e *Endpoint[R]) {
	if t == nil {
		panic("endpoint: nil transport")
	}
	if e == nil {
		panic("endpoint: nil endpoint")
	}
}
