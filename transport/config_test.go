// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/endpoint/request"
	"github.com/gogama/endpoint/retry"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	want := Config{
		UserAgent: "endpoint/1",
		Retry: RetryConfig{
			BaseWait: 50 * time.Millisecond,
			MaxWait:  time.Second,
			Factor:   2,
			Jitter:   1,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ApplyDefaults mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"negative max body size", func(c *Config) { c.MaxBodySize = -1 }},
		{"too many retries", func(c *Config) { c.Retry.Times = 11 }},
		{"negative retries", func(c *Config) { c.Retry.Times = -1 }},
		{"max wait below base wait", func(c *Config) { c.Retry.MaxWait = c.Retry.BaseWait / 2 }},
		{"factor below 1", func(c *Config) { c.Retry.Factor = 0.5 }},
		{"jitter above 1", func(c *Config) { c.Retry.Jitter = 2 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			testCase.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), "endpoint/transport: invalid config")
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeout: 5s
user_agent: pets-client/2
http2: true
headers:
  X-Api-Key: secret
retry:
  times: 2
  base_wait: 10ms
  factor: 1.5
log:
  level: debug
`), 0o600))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ENDPOINT_LOG_FORMAT=console\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ENDPOINT_LOG_FORMAT") })
	t.Setenv("ENDPOINT_RETRY_TIMES", "4")
	t.Setenv("ENDPOINT_RETRY_JITTER", "0.5")

	cfg, err := LoadConfig(path, envFile)

	require.NoError(t, err)
	want := Config{
		Timeout:   5 * time.Second,
		UserAgent: "pets-client/2",
		Headers:   map[string]string{"x-api-key": "secret"},
		HTTP2:     true,
		Retry: RetryConfig{
			Times:    4,
			BaseWait: 10 * time.Millisecond,
			MaxWait:  time.Second,
			Factor:   1.5,
			Jitter:   0.5,
		},
		Log: LogConfig{Level: "debug", Format: "console"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing config file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.yml"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})
	t.Run("missing env file", func(t *testing.T) {
		_, err := LoadConfig("", filepath.Join(dir, "nope.env"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading env file")
	})
	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  level: shouty\n"), 0o600))
		_, err := LoadConfig(path, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
	t.Run("no files", func(t *testing.T) {
		cfg, err := LoadConfig("", "")
		require.NoError(t, err)
		assert.Equal(t, "endpoint/1", cfg.UserAgent)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cl, err := NewClient(Config{})

		require.NoError(t, err)
		assert.False(t, cl.RetryPolicy.Decide(resetExecution()))
		assert.Nil(t, cl.TimeoutPolicy)
		assert.Nil(t, cl.Handlers)
		assert.Equal(t, "endpoint/1", cl.Header.Get("User-Agent"))
	})
	t.Run("configured", func(t *testing.T) {
		cl, err := NewClient(Config{
			Timeout:     time.Second,
			Headers:     map[string]string{"x-api-key": "secret"},
			HTTP2:       true,
			MaxBodySize: 1024,
			Retry:       RetryConfig{Times: 2},
		}, RequestID{})

		require.NoError(t, err)
		assert.Equal(t, "secret", cl.Header.Get("X-Api-Key"))
		assert.Equal(t, int64(1024), cl.MaxBodySize)
		assert.Equal(t, 2, cl.Handlers.Len(BeforeAttempt)+cl.Handlers.Len(BeforeExecutionStart))
		require.NotNil(t, cl.TimeoutPolicy)
		assert.Equal(t, time.Second, cl.TimeoutPolicy.Timeout(&request.Execution{}))
		assert.True(t, cl.RetryPolicy.Decide(resetExecution()))
		assert.True(t, isHTTP2(t, cl))
	})
	t.Run("retry backoff", func(t *testing.T) {
		cl, err := NewClient(Config{
			Retry: RetryConfig{Times: 1, BaseWait: 40 * time.Millisecond, MaxWait: 40 * time.Millisecond, Jitter: 0.25},
		})

		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			d := cl.RetryPolicy.Wait(resetExecution())
			assert.GreaterOrEqual(t, d, 30*time.Millisecond)
			assert.LessOrEqual(t, d, 40*time.Millisecond)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := NewClient(Config{Retry: RetryConfig{Times: 100}})
		assert.Error(t, err)
	})
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := RetryConfig{Times: 3, BaseWait: time.Millisecond, MaxWait: time.Minute, Factor: 3, Jitter: 0.5}

	want := retry.Backoff{Base: time.Millisecond, Max: time.Minute, Factor: 3, Jitter: 0.5}
	if diff := cmp.Diff(want, cfg.Backoff()); diff != "" {
		t.Errorf("Backoff mismatch (-want +got):\n%s", diff)
	}
}

func resetExecution() *request.Execution {
	return &request.Execution{
		Spec: request.MustNewSpec(request.GET, testURL),
		Err:  &url.Error{Op: "Get", URL: testURL, Err: syscall.ECONNRESET},
	}
}

func isHTTP2(t *testing.T, cl *Client) bool {
	hc, ok := cl.HTTPDoer.(*http.Client)
	require.True(t, ok, "HTTPDoer is %T", cl.HTTPDoer)
	tr, ok := hc.Transport.(*http.Transport)
	require.True(t, ok, "Transport is %T", hc.Transport)
	if tr.TLSClientConfig == nil {
		return false
	}
	for _, proto := range tr.TLSClientConfig.NextProtos {
		if proto == "h2" {
			return true
		}
	}
	return false
}

func TestLogConfig_NewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		log := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
		log.Info().Msg("hidden")
		log.Warn().Msg("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"message":"shown"`)
		assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
	})
	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		log := LogConfig{Level: "debug", Format: "console"}.NewLogger(&buf)
		log.Debug().Msg("pretty")
		assert.Contains(t, buf.String(), "pretty")
		assert.NotContains(t, buf.String(), `"message"`)
	})
	t.Run("bad level", func(t *testing.T) {
		log := LogConfig{Level: "nonsense"}.NewLogger(&bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
	})
}
