// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gogama/endpoint"
	"github.com/gogama/endpoint/request"
	"github.com/gogama/endpoint/transport"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type doFlags struct {
	query   []string
	header  []string
	data    string
	expect  []int
	timeout time.Duration
	mode    string
	pretty  bool
	include bool
}

func newDoCommand(g *globalFlags) *cobra.Command {
	var f doFlags
	cmd := &cobra.Command{
		Use:   "do METHOD URL",
		Short: "Send one request and print the response body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runDo(cmd, cfg, log, &f, request.Method(strings.ToUpper(args[0])), args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&f.query, "query", "q", nil, "query parameter as name=value (repeatable)")
	flags.StringArrayVarP(&f.header, "header", "H", nil, "header field as 'Name: value' (repeatable)")
	flags.StringVarP(&f.data, "data", "d", "", "request body")
	flags.IntSliceVar(&f.expect, "expect", nil, "accepted status codes (default any 2xx)")
	flags.DurationVar(&f.timeout, "timeout", 0, "request timeout (default from the request spec)")
	flags.StringVar(&f.mode, "mode", "await", "execution style: await, callback or stream")
	flags.BoolVar(&f.pretty, "pretty", false, "indent a JSON response body")
	flags.BoolVarP(&f.include, "include", "i", false, "print the status code before the body")
	return cmd
}

// rawBody is the parse step of the command's endpoint: it keeps the
// body along with the status code.
type rawBody struct {
	status int
	body   []byte
}

func parseRaw(body []byte, statusCode int) (rawBody, error) {
	return rawBody{status: statusCode, body: body}, nil
}

func (f *doFlags) options() ([]endpoint.Option, error) {
	var opts []endpoint.Option
	for _, q := range f.query {
		name, value, ok := strings.Cut(q, "=")
		if !ok {
			return nil, errors.Errorf("invalid query parameter %q, want name=value", q)
		}
		opts = append(opts, endpoint.WithQuery(name, value))
	}
	for _, h := range f.header {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, errors.Errorf("invalid header %q, want 'Name: value'", h)
		}
		opts = append(opts, endpoint.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}
	if f.data != "" {
		opts = append(opts, endpoint.WithBody(f.data))
	}
	if len(f.expect) > 0 {
		opts = append(opts, endpoint.WithExpectedStatus(endpoint.ExpectCodes(f.expect...)))
	}
	if f.timeout > 0 {
		opts = append(opts, endpoint.WithTimeout(f.timeout))
	}
	return opts, nil
}

func runDo(cmd *cobra.Command, cfg transport.Config, log zerolog.Logger, f *doFlags, method request.Method, url string) error {
	opts, err := f.options()
	if err != nil {
		return err
	}
	e, err := endpoint.New(method, url, parseRaw, opts...)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := transport.NewMetrics(reg)
	if err != nil {
		return err
	}
	cl, err := transport.NewClient(cfg, transport.NewLogger(log), transport.RequestID{}, metrics)
	if err != nil {
		return err
	}
	defer cl.CloseIdleConnections()

	log.Debug().Str("endpoint", e.String()).Str("mode", f.mode).Msg("sending")
	r, err := execute(cmd.Context(), cl, e, f.mode)
	log.Debug().Float64("attempts", countAttempts(reg)).Msg("done")
	if err != nil {
		log.Error().Err(err).Str("kind", endpoint.Classify(err).String()).Msg("request failed")
		return err
	}

	out := cmd.OutOrStdout()
	if f.include {
		fmt.Fprintf(out, "%d\n", r.status)
	}
	body := r.body
	if f.pretty {
		var buf bytes.Buffer
		if json.Indent(&buf, body, "", "  ") == nil {
			body = buf.Bytes()
		}
	}
	_, err = out.Write(body)
	if err == nil && len(body) > 0 && body[len(body)-1] != '\n' {
		_, err = fmt.Fprintln(out)
	}
	return err
}

func execute(ctx context.Context, t endpoint.Transport, e *endpoint.Endpoint[rawBody], mode string) (rawBody, error) {
	switch mode {
	case "await":
		return endpoint.Do(ctx, t, e)
	case "callback":
		var r rawBody
		var err error
		endpoint.Load(ctx, t, e, func(value rawBody, loadErr error) {
			r, err = value, loadErr
		}).Wait()
		return r, err
	case "stream":
		values := make(chan rawBody, 1)
		done := make(chan error, 1)
		sub := endpoint.Sink(endpoint.Publish(ctx, t, e),
			func(value rawBody) { values <- value },
			func(err error) { done <- err })
		select {
		case err := <-done:
			if err != nil {
				return rawBody{}, err
			}
			return <-values, nil
		case <-ctx.Done():
			sub.Cancel()
			return rawBody{}, ctx.Err()
		}
	default:
		return rawBody{}, errors.Errorf("unknown mode %q, want await, callback or stream", mode)
	}
}

func countAttempts(g prometheus.Gatherer) float64 {
	mfs, err := g.Gather()
	if err != nil {
		return 0
	}
	var n float64
	for _, mf := range mfs {
		if mf.GetName() != "endpoint_attempts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			n += m.GetCounter().GetValue()
		}
	}
	return n
}
