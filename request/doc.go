// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the request-side value types shared by
descriptors and transports: Spec (an immutable HTTP request
specification), Response (the status, header and body a transport
produces) and Execution (the state of one transport call, used by the
HTTP transport and its policies and event handlers).

Build a Spec from a method, an absolute URL and options:

	s, err := request.NewSpec(request.GET, "https://example.com/people",
		request.WithAccept(request.JSON),
		request.WithQuery("name", "Alice Smith"))
	...

Query parameters are appended to any query already on the URL, which is
preserved as is. Accept and Content-Type are set first, then the
caller's header fields, which may overwrite them, then the body. Once
built, a Spec never changes, so it is safe to share between descriptors
and goroutines.
*/
package request
