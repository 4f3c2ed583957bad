// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gogama/endpoint/retry"
	"github.com/gogama/endpoint/timeout"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/net/http2"
)

// EnvPrefix is the prefix of the environment variables read by
// LoadConfig. For example, ENDPOINT_RETRY_TIMES sets retry.times.
const EnvPrefix = "ENDPOINT"

// Config configures a Client built by NewClient.
type Config struct {
	// Timeout, if positive, replaces the timeout of every spec. If
	// zero, each spec's own timeout is used.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	// UserAgent is sent in the User-Agent header unless the spec sets
	// one.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	// Headers are default header fields, sent unless the spec sets
	// them.
	Headers map[string]string `mapstructure:"headers" yaml:"headers"`
	// HTTP2 enables HTTP/2 over TLS on the client's transport.
	HTTP2 bool `mapstructure:"http2" yaml:"http2"`
	// MaxBodySize limits the buffered response body. Zero means
	// DefaultMaxBodySize.
	MaxBodySize int64 `mapstructure:"max_body_size" yaml:"max_body_size" validate:"gte=0"`

	Retry RetryConfig `mapstructure:"retry" yaml:"retry"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
}

// RetryConfig configures transport retries. Retries are off unless
// Times is positive. The wait fields describe a retry.Backoff; a zero
// Jitter is replaced by 1 when defaults are applied.
type RetryConfig struct {
	Times    int           `mapstructure:"times" yaml:"times" validate:"gte=0,lte=10"`
	BaseWait time.Duration `mapstructure:"base_wait" yaml:"base_wait" validate:"gt=0"`
	MaxWait  time.Duration `mapstructure:"max_wait" yaml:"max_wait" validate:"gtefield=BaseWait"`
	Factor   float64       `mapstructure:"factor" yaml:"factor" validate:"gte=1"`
	Jitter   float64       `mapstructure:"jitter" yaml:"jitter" validate:"gte=0,lte=1"`
}

// Backoff returns the retry.Backoff described by c.
func (c RetryConfig) Backoff() retry.Backoff {
	return retry.Backoff{
		Base:   c.BaseWait,
		Max:    c.MaxWait,
		Factor: c.Factor,
		Jitter: c.Jitter,
	}
}

// LogConfig configures the zerolog logger built by NewLogger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = "endpoint/1"
	}
	if c.Retry.BaseWait == 0 {
		c.Retry.BaseWait = 50 * time.Millisecond
	}
	if c.Retry.MaxWait == 0 {
		c.Retry.MaxWait = time.Second
	}
	if c.Retry.Factor == 0 {
		c.Retry.Factor = 2
	}
	if c.Retry.Jitter == 0 {
		c.Retry.Jitter = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration. Call ApplyDefaults first.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "endpoint/transport: invalid config")
	}
	return nil
}

var configKeys = []string{
	"timeout",
	"user_agent",
	"http2",
	"max_body_size",
	"retry.times",
	"retry.base_wait",
	"retry.max_wait",
	"retry.factor",
	"retry.jitter",
	"log.level",
	"log.format",
}

// LoadConfig reads a Config from the YAML file at path, then from the
// environment. If envFile is not empty, it is loaded into the
// environment first; variables already set are not overridden.
// Environment variables take precedence over the file. Either path may
// be empty.
//
// The returned Config has defaults applied and has been validated.
func LoadConfig(path, envFile string) (Config, error) {
	var cfg Config

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return cfg, errors.Wrapf(err, "endpoint/transport: loading env file %s", envFile)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return cfg, errors.Wrapf(err, "endpoint/transport: binding %s", key)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, errors.Wrapf(err, "endpoint/transport: reading config file %s", path)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "endpoint/transport: decoding config")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NewClient builds a Client from cfg and installs plugins into its
// handler group. Defaults are applied to cfg before it is validated.
func NewClient(cfg Config, plugins ...Plugin) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.HTTP2 {
		if _, err := http2.ConfigureTransports(t); err != nil {
			return nil, errors.Wrap(err, "endpoint/transport: configuring HTTP/2")
		}
	}

	header := make(http.Header, len(cfg.Headers)+1)
	for name, value := range cfg.Headers {
		header.Set(name, value)
	}
	header.Set("User-Agent", cfg.UserAgent)

	c := &Client{
		HTTPDoer:    &http.Client{Transport: t},
		RetryPolicy: retryPolicy(cfg.Retry),
		Header:      header,
		MaxBodySize: cfg.MaxBodySize,
	}
	if cfg.Timeout > 0 {
		c.TimeoutPolicy = timeout.Fixed(cfg.Timeout)
	}
	if len(plugins) > 0 {
		c.Handlers = Install(nil, plugins...)
	}
	return c, nil
}

func retryPolicy(cfg RetryConfig) retry.Policy {
	if cfg.Times <= 0 {
		return retry.Never
	}
	decider := retry.Times(cfg.Times).
		And(retry.Idempotent).
		And(retry.StatusCode(429, 502, 503, 504).Or(retry.TransientErr))
	return retry.NewPolicy(decider, retry.NewBackoff(cfg.Backoff()))
}

// NewLogger builds a zerolog.Logger writing to w. The console format
// writes human-readable lines; any other format writes JSON.
func (c LogConfig) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
