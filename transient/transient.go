// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"syscall"
)

// A Category classifies a transport error, as reported by Categorize.
//
// Not means the error is not expected to clear up on its own. Canceled
// means the caller gave up. The remaining categories are transient: a
// later call has some prospect of success.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout: the error or one of its
	// wrapped causes has a Timeout method that reports true. This
	// includes context.DeadlineExceeded.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED). The service may be starting or
	// restarting.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET).
	ConnReset
	// Canceled indicates the call was abandoned because its context
	// was canceled. It is not transient.
	Canceled
)

var names = []string{
	"not",
	"timeout",
	"conn_refused",
	"conn_reset",
	"canceled",
}

// String returns a short snake_case name for the category, suitable
// for use as a log field or metric label.
func (c Category) String() string {
	if c < 0 || int(c) >= len(names) {
		return "unknown"
	}
	return names[c]
}

// Transient reports whether the category indicates a transient error.
func (c Category) Transient() bool {
	return c == Timeout || c == ConnRefused || c == ConnReset
}

// Categorize returns the category of err, looking at the causes wrapped
// within err as well as err itself. A nil error is Not.
//
// Categorize never consults a Temporary method, whose semantics are
// unclear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var t hasTimeout
	if errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
