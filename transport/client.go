// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/endpoint"
	"github.com/gogama/endpoint/request"
	"github.com/gogama/endpoint/retry"
	"github.com/gogama/endpoint/timeout"
)

// DefaultMaxBodySize is the response body limit used when
// Client.MaxBodySize is not positive.
const DefaultMaxBodySize int64 = 1 << 22

// ErrBodyTooLarge is wrapped into the error returned by Client when a
// response body exceeds the client's body size limit.
var ErrBodyTooLarge = errors.New("endpoint/transport: response body too large")

// An HTTPDoer sends an HTTP request and returns an HTTP response in the
// same manner as http.Client from the standard net/http package.
type HTTPDoer interface {
	Do(r *http.Request) (*http.Response, error)
}

// An IdleCloser can close idle connections. Both http.Client and
// http.Transport implement IdleCloser.
type IdleCloser interface {
	CloseIdleConnections()
}

var emptyHandlers = HandlerGroup{}

var _ endpoint.Transport = (*Client)(nil)

// A Client is the HTTP transport for endpoints. It turns a request.Spec
// into one or more HTTP request attempts, buffers the final response
// body, and hands the result back as a request.Response. Its zero value
// is a valid configuration.
//
// The zero value client uses http.DefaultClient as the HTTPDoer,
// timeout.DefaultPolicy as the timeout policy, retry.Never as the retry
// policy, and no event handlers.
//
// On top of the HTTPDoer, Client adds:
//
// • buffering of the entire response body, up to MaxBodySize bytes;
//
// • retry of failed attempts, following a customizable retry policy;
//
// • per-attempt timeouts, following a customizable timeout policy;
//
// • default request headers; and
//
// • event handlers run at fixed points within the attempt loop.
//
// Client is safe for concurrent use by multiple goroutines, and should
// be reused since its HTTPDoer typically caches connections.
type Client struct {
	// HTTPDoer sends the HTTP requests. If nil, http.DefaultClient is
	// used.
	HTTPDoer HTTPDoer
	// RetryPolicy decides when to retry failed attempts and how long
	// to wait in between. If nil, retry.Never is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy sets the timeout of each attempt. If nil,
	// timeout.DefaultPolicy is used, which honors the spec's timeout.
	TimeoutPolicy timeout.Policy
	// Handlers holds the event handlers run during each execution. If
	// nil, no handlers are run.
	Handlers *HandlerGroup
	// Header holds default header fields. Each field is added to the
	// outgoing request only if the spec does not already set it.
	Header http.Header
	// MaxBodySize limits the number of response body bytes buffered.
	// If not positive, DefaultMaxBodySize is used.
	MaxBodySize int64
}

// Do executes spec and returns the transport-level result, following
// the client's timeout and retry policies. It implements
// endpoint.Transport.
//
// Any non-nil error is a *url.Error wrapping the cause. A response with
// any status code is a success at this level.
func (c *Client) Do(ctx context.Context, spec *request.Spec) (*request.Response, error) {
	e, err := c.Execute(ctx, spec)
	if err != nil {
		return nil, err
	}
	return e.Result(), nil
}

// Execute executes spec and returns the full execution record.
//
// The result reflects the final HTTP request attempt, as determined by
// the retry policy. An error is returned if that attempt ended in
// error: the HTTP exchange failed, the attempt timed out, the context
// ended, or the body could not be read. A non-2XX status code is not an
// error.
//
// The returned Execution is never nil. If an error is returned, the
// execution's Err field references it, and the error is a *url.Error
// whose Timeout method reports whether the final attempt, or the whole
// execution, timed out.
func (c *Client) Execute(ctx context.Context, spec *request.Spec) (*request.Execution, error) {
	if ctx == nil {
		panic("endpoint/transport: nil context")
	}
	if spec == nil {
		panic("endpoint/transport: nil spec")
	}

	e := request.Execution{
		Spec: spec,
	}

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	retryPolicy := c.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.Never
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

RetryLoop:
	for {
		c.sendAndReceive(ctx, &e, handlers, timeoutPolicy)
		if e.Timeout() {
			e.AttemptTimeouts++
			handlers.run(AfterAttemptTimeout, &e)
		}
		handlers.run(AfterAttempt, &e)
		ctxErr := ctx.Err()
		if ctxErr == context.DeadlineExceeded {
			handlers.run(AfterExecutionTimeout, &e)
			break
		} else if ctxErr != nil {
			e.Err = urlErrorWrap(spec, ctxErr)
			break
		} else if retryPolicy.Decide(&e) {
			wait := retryPolicy.Wait(&e)
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				err := ctx.Err()
				e.Err = urlErrorWrap(spec, err)
				if err == context.DeadlineExceeded {
					handlers.run(AfterExecutionTimeout, &e)
				}
				break RetryLoop
			}
			e.PrevAttemptTimeout = e.Timeout()
			e.Response = nil
			e.Err = nil
			e.Body = nil
			e.Attempt++
		} else {
			break
		}
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, &e)
	return &e, e.Err
}

func (c *Client) sendAndReceive(ctx context.Context, e *request.Execution, handlers *HandlerGroup, timeoutPolicy timeout.Policy) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeoutPolicy.Timeout(e))
	defer cancel()
	e.Request = e.Spec.ToRequest(attemptCtx)
	c.addDefaultHeader(e.Request)
	handlers.run(BeforeAttempt, e)
	resp, err := c.doer().Do(e.Request)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		e.Response = nil
		e.Err = urlErrorWrap(e.Spec, err)
		return
	}
	e.Response = resp
	c.readBody(e, handlers)
}

func (c *Client) readBody(e *request.Execution, handlers *HandlerGroup) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	limit := c.maxBodySize()
	var err error
	e.Body, err = io.ReadAll(io.LimitReader(e.Response.Body, limit+1))
	if err != nil {
		e.Err = urlErrorWrap(e.Spec, err)
	} else if int64(len(e.Body)) > limit {
		e.Body = nil
		e.Err = urlErrorWrap(e.Spec, ErrBodyTooLarge)
	}
}

func (c *Client) addDefaultHeader(r *http.Request) {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	for name, values := range c.Header {
		if _, ok := r.Header[name]; ok || len(values) == 0 {
			continue
		}
		r.Header[name] = append([]string(nil), values...)
	}
}

// CloseIdleConnections invokes the same method on the client's
// HTTPDoer, if it has one.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.doer().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}
	return c.HTTPDoer
}

func (c *Client) maxBodySize() int64 {
	if c.MaxBodySize <= 0 {
		return DefaultMaxBodySize
	}
	return c.MaxBodySize
}

func urlErrorWrap(spec *request.Spec, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(string(spec.Method())),
		URL: spec.URL().String(),
		Err: err,
	}
}

// urlErrorOp matches the Op naming used by net/http.
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
