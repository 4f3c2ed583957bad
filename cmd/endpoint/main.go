// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command endpoint sends a single HTTP request described on the command
// line through the endpoint transport and prints the response body.
//
//	endpoint do GET https://api.example.com/pets -q species=dog -H 'Accept: application/json'
//	endpoint do POST https://api.example.com/pets -d '{"name":"Rex"}' --expect 201
//	endpoint config --config endpoint.yml
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gogama/endpoint/transport"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	configFile string
	envFile    string
	verbose    bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "endpoint",
		Short:         "Send typed HTTP requests through the endpoint transport",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&g.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&g.envFile, "env-file", "", ".env file loaded before reading ENDPOINT_* variables")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "log every attempt at debug level")

	root.AddCommand(newDoCommand(&g))
	root.AddCommand(newConfigCommand(&g))
	return root
}

// load reads the configuration and builds the logger it describes.
func (g *globalFlags) load(stderr io.Writer) (transport.Config, zerolog.Logger, error) {
	cfg, err := transport.LoadConfig(g.configFile, g.envFile)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if g.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Log.NewLogger(stderr), nil
}

func newConfigCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "timeout: %s\n", cfg.Timeout)
			fmt.Fprintf(out, "user_agent: %s\n", cfg.UserAgent)
			fmt.Fprintf(out, "http2: %t\n", cfg.HTTP2)
			fmt.Fprintf(out, "max_body_size: %d\n", cfg.MaxBodySize)
			fmt.Fprintf(out, "retry.times: %d\n", cfg.Retry.Times)
			fmt.Fprintf(out, "retry.base_wait: %s\n", cfg.Retry.BaseWait)
			fmt.Fprintf(out, "retry.max_wait: %s\n", cfg.Retry.MaxWait)
			fmt.Fprintf(out, "retry.factor: %g\n", cfg.Retry.Factor)
			fmt.Fprintf(out, "retry.jitter: %g\n", cfg.Retry.Jitter)
			fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
			fmt.Fprintf(out, "log.format: %s\n", cfg.Log.Format)
			return nil
		},
	}
}
