// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/gogama/endpoint/request"
)

// A HandlerGroup is a set of event handler chains, one per Event, which
// can be installed in a Client.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds h to the back of the handler chain for evt.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("endpoint/transport: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// Len returns the number of handlers in the chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	i := int(evt)
	if g == nil || i >= len(g.handlers) {
		return 0
	}
	return len(g.handlers[i])
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e)
	}
}

func run(chain []Handler, evt Event, e *request.Execution) {
	for _, h := range chain {
		h.Handle(evt, e)
	}
}

// A Handler handles an event during an execution.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}

// A Plugin installs one or more handlers into a HandlerGroup. The
// logging, tracing, metrics and request ID handlers in this package are
// all plugins.
type Plugin interface {
	Register(g *HandlerGroup)
}

// Install registers each plugin into g, in order, and returns g. A nil
// g is replaced with a new, empty group.
func Install(g *HandlerGroup, plugins ...Plugin) *HandlerGroup {
	if g == nil {
		g = &HandlerGroup{}
	}
	for _, p := range plugins {
		p.Register(g)
	}
	return g
}
