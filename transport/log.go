// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/gogama/endpoint/request"
	"github.com/gogama/endpoint/transient"
	"github.com/rs/zerolog"
)

// A Logger is a plugin that writes one structured log event per
// attempt, plus one when the execution ends, to a zerolog.Logger.
//
// Successful attempts are logged at debug level, failed attempts at
// warn level, and the end of a failed execution at error level.
type Logger struct {
	Log zerolog.Logger
}

// NewLogger returns a logging plugin writing to log.
func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{Log: log}
}

// Register installs the logger's handlers into g.
func (l *Logger) Register(g *HandlerGroup) {
	g.PushBack(AfterAttempt, l)
	g.PushBack(AfterExecutionEnd, l)
}

// Handle logs evt.
func (l *Logger) Handle(evt Event, e *request.Execution) {
	switch evt {
	case AfterAttempt:
		l.attempt(e)
	case AfterExecutionEnd:
		l.end(e)
	}
}

func (l *Logger) attempt(e *request.Execution) {
	var ev *zerolog.Event
	if e.Err != nil {
		ev = l.Log.Warn().Err(e.Err).Str("category", transient.Categorize(e.Err).String())
	} else {
		ev = l.Log.Debug()
	}
	ev.Str("method", string(e.Spec.Method())).
		Str("url", e.Spec.URL().String()).
		Int("attempt", e.Attempt).
		Int("status", e.StatusCode()).
		Int("bytes", len(e.Body)).
		Msg("attempt")
}

func (l *Logger) end(e *request.Execution) {
	var ev *zerolog.Event
	if e.Err != nil {
		ev = l.Log.Error().Err(e.Err)
	} else {
		ev = l.Log.Info()
	}
	ev.Str("method", string(e.Spec.Method())).
		Str("url", e.Spec.URL().String()).
		Int("attempts", e.Attempt+1).
		Int("timeouts", e.AttemptTimeouts).
		Int("status", e.StatusCode()).
		Dur("duration", e.Duration()).
		Msg("execution")
}
