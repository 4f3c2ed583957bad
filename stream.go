// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"context"
	"sync"
)

// A Subscriber receives the events of one subscription to a Publisher.
//
// OnSubscribe is called first, synchronously within Publisher.Subscribe.
// After demand is signalled, exactly one of the following sequences
// follows: OnNext then OnComplete on success, or OnError on failure.
// Nothing follows once the subscription is canceled. Terminal events
// are delivered on a goroutine owned by the subscription.
type Subscriber[R any] interface {
	OnSubscribe(s Subscription)
	OnNext(value R)
	OnError(err error)
	OnComplete()
}

// A Subscription links one Subscriber to a Publisher.
type Subscription interface {
	// Request signals demand for n values. The first call with n > 0
	// issues the transport call; later calls, and calls with n <= 0,
	// have no effect.
	Request(n int)
	// Cancel aborts the in-flight transport call, if any, and releases
	// the subscriber. No event is delivered after Cancel returns unless
	// the subscription had already terminated. Cancel is idempotent.
	Cancel()
}

// A Publisher is a cold, single-value stream for one Endpoint. Each
// subscription makes at most one transport call, and only after demand
// is signalled.
type Publisher[R any] struct {
	ctx context.Context
	t   Transport
	e   *Endpoint[R]
}

// Publish returns a Publisher that executes e against t for each
// subscription. Every transport call is bound to ctx.
func Publish[R any](ctx context.Context, t Transport, e *Endpoint[R]) *Publisher[R] {
	mustArgs(t, e)
	if ctx == nil {
		panic("endpoint: nil context")
	}
	return &Publisher[R]{ctx: ctx, t: t, e: e}
}

// Subscribe creates a new subscription for s and passes it to
// s.OnSubscribe. Subscriptions are never reused: subscribing again,
// even with the same subscriber, creates a fresh one.
func (p *Publisher[R]) Subscribe(s Subscriber[R]) {
	if s == nil {
		panic("endpoint: nil subscriber")
	}
	sub := &subscription[R]{publisher: p, subscriber: s}
	s.OnSubscribe(sub)
}

type streamState int

const (
	idle streamState = iota
	requesting
	completed
	errored
	canceled
)

type subscription[R any] struct {
	publisher *Publisher[R]

	lock       sync.Mutex
	state      streamState
	subscriber Subscriber[R]
	cancel     context.CancelFunc
}

func (s *subscription[R]) Request(n int) {
	if n <= 0 {
		return
	}
	s.lock.Lock()
	if s.state != idle {
		s.lock.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.publisher.ctx)
	s.state = requesting
	s.cancel = cancel
	s.lock.Unlock()

	go s.run(ctx)
}

func (s *subscription[R]) run(ctx context.Context) {
	r, _, err := execute(ctx, s.publisher.t, s.publisher.e)

	s.lock.Lock()
	if s.state != requesting {
		s.lock.Unlock()
		return
	}
	sub, cancel := s.subscriber, s.cancel
	s.subscriber, s.cancel = nil, nil
	if err != nil {
		s.state = errored
	} else {
		s.state = completed
	}
	s.lock.Unlock()
	cancel()

	if err != nil {
		sub.OnError(err)
		return
	}
	sub.OnNext(r)
	sub.OnComplete()
}

func (s *subscription[R]) Cancel() {
	s.lock.Lock()
	if s.state != idle && s.state != requesting {
		s.lock.Unlock()
		return
	}
	cancel := s.cancel
	s.state = canceled
	s.subscriber, s.cancel = nil, nil
	s.lock.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Sink subscribes to p with a subscriber that requests a single value
// as soon as it is subscribed. onValue receives the value, if any, and
// onCompletion is called last with nil on success or the error on
// failure. Either callback may be nil. The returned Subscription may be
// used to cancel.
func Sink[R any](p *Publisher[R], onValue func(R), onCompletion func(error)) Subscription {
	s := &sink[R]{onValue: onValue, onCompletion: onCompletion}
	p.Subscribe(s)
	return s.sub
}

type sink[R any] struct {
	sub          Subscription
	onValue      func(R)
	onCompletion func(error)
}

func (s *sink[R]) OnSubscribe(sub Subscription) {
	s.sub = sub
	sub.Request(1)
}

func (s *sink[R]) OnNext(value R) {
	if s.onValue != nil {
		s.onValue(value)
	}
}

func (s *sink[R]) OnError(err error) {
	if s.onCompletion != nil {
		s.onCompletion(err)
	}
}

func (s *sink[R]) OnComplete() {
	if s.onCompletion != nil {
		s.onCompletion(nil)
	}
}
