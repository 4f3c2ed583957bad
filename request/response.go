// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "net/http"

// A Response is the outcome of a successful transport call: the status
// code, header and fully-read body of an HTTP response.
//
// A nil or empty Body means the response had no body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HasBody reports whether r carries a non-empty body.
func (r *Response) HasBody() bool {
	return r != nil && len(r.Body) > 0
}
