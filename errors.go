// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"errors"
	"fmt"

	"github.com/gogama/endpoint/request"
	"github.com/gogama/endpoint/transient"
)

var (
	// ErrUnknown is returned when the transport produced something that
	// cannot be interpreted as an HTTP response, such as a missing
	// response or an invalid status code.
	ErrUnknown = errors.New("endpoint: not an HTTP response")

	// ErrNoData is returned by decoding parse functions when an accepted
	// response has no body.
	ErrNoData = errors.New("endpoint: response has no body")
)

// A TransportError reports that the transport call itself failed, for
// example because the connection was refused, the request timed out or
// the context was canceled. No status check or parse was attempted.
type TransportError struct {
	Method request.Method
	URL    string
	Err    error
}

func (err *TransportError) Error() string {
	return fmt.Sprintf("endpoint: %s %s: %v", err.Method, err.URL, err.Err)
}

func (err *TransportError) Unwrap() error {
	return err.Err
}

// Timeout reports whether the transport call timed out.
func (err *TransportError) Timeout() bool {
	return transient.Categorize(err.Err) == transient.Timeout
}

// Category returns the transience category of the underlying cause.
func (err *TransportError) Category() transient.Category {
	return transient.Categorize(err.Err)
}

// A WrongStatusCodeError reports that a response had a status code the
// descriptor does not accept. The response body was not parsed; it is
// available, raw, in Response.
type WrongStatusCodeError struct {
	StatusCode int
	Response   *request.Response
}

func (err *WrongStatusCodeError) Error() string {
	return fmt.Sprintf("endpoint: unexpected status code %d", err.StatusCode)
}

// A Kind classifies the errors an execution adapter can return.
type Kind int

const (
	// KindNone is the kind of a nil error.
	KindNone Kind = iota
	// KindTransport is the kind of a *TransportError.
	KindTransport
	// KindUnknown is the kind of ErrUnknown.
	KindUnknown
	// KindWrongStatusCode is the kind of a *WrongStatusCodeError.
	KindWrongStatusCode
	// KindNoData is the kind of ErrNoData.
	KindNoData
	// KindCodec is the kind of every other error. These come from the
	// parse step, typically from a codec or a FlatMap function.
	KindCodec
)

var kindNames = []string{
	"none",
	"transport",
	"unknown",
	"wrong_status_code",
	"no_data",
	"codec",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Classify returns the kind of err, looking through wrapped errors.
func Classify(err error) Kind {
	var transportErr *TransportError
	var statusErr *WrongStatusCodeError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.Is(err, ErrUnknown):
		return KindUnknown
	case errors.As(err, &statusErr):
		return KindWrongStatusCode
	case errors.Is(err, ErrNoData):
		return KindNoData
	default:
		return KindCodec
	}
}

// StatusCode returns the rejected status code if err is, or wraps, a
// *WrongStatusCodeError.
func StatusCode(err error) (int, bool) {
	var statusErr *WrongStatusCodeError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}
