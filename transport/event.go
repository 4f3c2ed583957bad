// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

// An Event identifies a point in the lifecycle of an execution at which
// installed handlers run.
type Event int

const (
	// BeforeExecutionStart occurs before the execution starts. Only the
	// execution's Spec is set.
	BeforeExecutionStart Event = iota
	// BeforeAttempt occurs before each HTTP request attempt.
	//
	// The execution's Request field holds the request that will be sent
	// once all BeforeAttempt handlers have finished. The request's URL
	// and Header are fresh copies built from the spec for this attempt,
	// so handlers may change them in place.
	BeforeAttempt
	// BeforeReadBody occurs after an attempt produced an HTTP response
	// but before its body is read. It fires for every status code, and
	// never fires when the attempt ended in error.
	BeforeReadBody
	// AfterAttemptTimeout occurs after an attempt failed because of a
	// timeout. The execution's error is set and its attempt timeout
	// counter has already been incremented.
	AfterAttemptTimeout
	// AfterAttempt occurs after every attempt, successful or not, and
	// before the retry policy is consulted.
	//
	// At least one of the execution's Response and Err fields is
	// non-nil. Both are non-nil only when reading the body failed.
	AfterAttempt
	// AfterExecutionTimeout occurs when the deadline of the context
	// passed to Client.Execute expires, either during an attempt or
	// during the wait between attempts. It always follows AfterAttempt.
	AfterExecutionTimeout
	// AfterExecutionEnd occurs once the execution is over. The
	// execution's End time is set.
	AfterExecutionEnd

	eventSentinel

	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"AfterExecutionTimeout",
	"AfterExecutionEnd",
}

// Events returns all events in the order in which they occur during an
// execution.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		BeforeReadBody,
		AfterAttemptTimeout,
		AfterAttempt,
		AfterExecutionTimeout,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
