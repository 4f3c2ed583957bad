// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

// Map returns a new Endpoint with the same request and status check as
// e, whose parse step applies f to the value parsed by e. f is never
// called when e's parse step fails; the failure is passed through.
//
// Map(Map(e, f), g) behaves exactly like Map(e, func(r R) R3 { return g(f(r)) }).
func Map[R, R2 any](e *Endpoint[R], f func(R) R2) *Endpoint[R2] {
	if f == nil {
		panic("endpoint: nil map function")
	}
	parse := e.parse
	return &Endpoint[R2]{
		spec:   e.spec,
		accept: e.accept,
		parse: func(body []byte, statusCode int) (R2, error) {
			r, err := parse(body, statusCode)
			if err != nil {
				var zero R2
				return zero, err
			}
			return f(r), nil
		},
	}
}

// FlatMap is like Map, but f may itself fail. f is never called when
// e's parse step fails, and that failure is returned unchanged.
func FlatMap[R, R2 any](e *Endpoint[R], f func(R) (R2, error)) *Endpoint[R2] {
	if f == nil {
		panic("endpoint: nil flatMap function")
	}
	parse := e.parse
	return &Endpoint[R2]{
		spec:   e.spec,
		accept: e.accept,
		parse: func(body []byte, statusCode int) (R2, error) {
			r, err := parse(body, statusCode)
			if err != nil {
				var zero R2
				return zero, err
			}
			return f(r)
		},
	}
}
