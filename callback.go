// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import "context"

// A Task is a handle on a transport call started by Load.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel cancels the transport call. The completion handler still runs,
// once, with a *TransportError wrapping context.Canceled, unless the
// call had already finished. Cancel may be called any number of times
// from any goroutine.
func (t *Task) Cancel() {
	t.cancel()
}

// Done returns a channel closed after the completion handler returns.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the completion handler has returned.
func (t *Task) Wait() {
	<-t.done
}

// Load starts executing e against t on a new goroutine and returns
// immediately. When the transport call resolves, onComplete is invoked
// exactly once, on that goroutine, with the value or the error.
//
// The call is bound to ctx; canceling ctx has the same effect as
// Task.Cancel.
func Load[R any](ctx context.Context, t Transport, e *Endpoint[R], onComplete func(R, error)) *Task {
	mustArgs(t, e)
	if onComplete == nil {
		panic("endpoint: nil completion handler")
	}
	ctx, cancel := context.WithCancel(ctx)
	task := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(task.done)
		defer cancel()
		r, _, err := execute(ctx, t, e)
		onComplete(r, err)
	}()
	return task
}
