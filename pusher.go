// pusher.go: Synchronous log pusher for the Grafana Loki push API
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokipush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

const maxErrorBodyBytes = 64 * 1024

// BasicAuth holds a username/password pair for HTTP basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

// Config holds the configuration options for the pusher.
//
// The pusher provides sensible defaults for all optional fields; only
// BaseURL is required.
type Config struct {
	// BaseURL is the Loki instance base URL (required).
	// Example: "http://localhost:3100". Must not end with a slash.
	BaseURL string

	// PushPath is the push API path appended to BaseURL (default:
	// "/loki/api/v1/push"). Must start with a slash.
	PushPath string

	// SeverityLabel is the stream label key that carries the log level
	// (default: "level").
	SeverityLabel string

	// Auth is an optional basic-auth credential pair. If set, every push
	// carries an Authorization header.
	Auth *BasicAuth

	// Labels are static labels attached to every log stream. Per-call
	// labels are merged on top of these.
	Labels map[string]string

	// Timeout is the HTTP request timeout (default: 10s).
	Timeout time.Duration
}

// pushRequest is the Loki push API v1 envelope.
type pushRequest struct {
	Streams []stream `json:"streams"`
}

// stream is a single log stream: its identifying labels and the
// [timestamp, line] value pairs.
type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// Pusher sends individual log entries to Grafana Loki.
//
// Each push is one synchronous HTTP POST; there is no batching, retrying,
// or buffering. The configuration is immutable after New, so a Pusher is
// safe for concurrent use from multiple goroutines.
type Pusher struct {
	endpoint      string
	severityLabel string
	auth          *BasicAuth
	labels        map[string]string
	client        *http.Client
	bufPool       sync.Pool
}

// New creates a new pusher with the given configuration.
//
// It validates the configuration once and applies defaults for optional
// fields. The default labels are copied, so later changes to the caller's
// map do not affect the pusher.
//
// Returns a *ConfigurationError if BaseURL is empty or ends with a slash,
// or if PushPath does not start with a slash.
func New(config Config) (*Pusher, error) {
	if config.PushPath == "" {
		config.PushPath = "/loki/api/v1/push"
	}
	if config.SeverityLabel == "" {
		config.SeverityLabel = "level"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	if config.BaseURL == "" {
		return nil, &ConfigurationError{Reason: "BaseURL cannot be empty"}
	}
	if strings.HasSuffix(config.BaseURL, "/") {
		return nil, &ConfigurationError{Reason: "BaseURL must not end with /"}
	}
	if !strings.HasPrefix(config.PushPath, "/") {
		return nil, &ConfigurationError{Reason: "PushPath must start with /"}
	}

	labels := make(map[string]string, len(config.Labels))
	for k, v := range config.Labels {
		labels[k] = v
	}

	pusher := &Pusher{
		endpoint:      config.BaseURL + config.PushPath,
		severityLabel: config.SeverityLabel,
		auth:          config.Auth,
		labels:        labels,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}

	pusher.bufPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 4*1024))
		},
	}

	return pusher, nil
}

// Option customizes a single push call.
type Option func(*pushOptions)

type pushOptions struct {
	extras map[string]interface{}
	labels map[string]string
}

// WithExtras merges extra key/value pairs into the log payload at the top
// level, next to the "message" key. An extra named "message" overwrites
// the message itself.
func WithExtras(extras map[string]interface{}) Option {
	return func(o *pushOptions) {
		o.extras = extras
	}
}

// WithLabels attaches additional labels to the log stream. They are merged
// over the configured default labels and win on conflicting keys; the
// severity label always wins over both.
func WithLabels(labels map[string]string) Option {
	return func(o *pushOptions) {
		o.labels = labels
	}
}

// CustomLevel pushes a single log entry with an arbitrary severity level.
//
// The message may be a string or any JSON-encodable value; it is sent
// under the "message" key of the entry payload. The call blocks for one
// HTTP round trip, bounded by the configured timeout.
//
// Returns a *ConnectionError if the endpoint could not be reached, or a
// *PushError if Loki responded with a status other than 204.
func (p *Pusher) CustomLevel(ctx context.Context, level string, message interface{}, opts ...Option) error {
	return p.push(ctx, level, message, opts)
}

// Info pushes a log entry with level "info".
func (p *Pusher) Info(ctx context.Context, message interface{}, opts ...Option) error {
	return p.push(ctx, "info", message, opts)
}

// Warn pushes a log entry with level "warn".
func (p *Pusher) Warn(ctx context.Context, message interface{}, opts ...Option) error {
	return p.push(ctx, "warn", message, opts)
}

// Error pushes a log entry with level "error".
func (p *Pusher) Error(ctx context.Context, message interface{}, opts ...Option) error {
	return p.push(ctx, "error", message, opts)
}

// Debug pushes a log entry with level "debug".
func (p *Pusher) Debug(ctx context.Context, message interface{}, opts ...Option) error {
	return p.push(ctx, "debug", message, opts)
}

func (p *Pusher) push(ctx context.Context, level string, message interface{}, opts []Option) error {
	var options pushOptions
	for _, opt := range opts {
		opt(&options)
	}

	payload := make(map[string]interface{}, len(options.extras)+1)
	payload["message"] = message
	for k, v := range options.extras {
		payload[k] = v
	}

	// Merged into a fresh map so neither the stored defaults nor the
	// caller's map are ever mutated.
	merged := make(map[string]string, len(p.labels)+len(options.labels)+1)
	for k, v := range p.labels {
		merged[k] = v
	}
	for k, v := range options.labels {
		merged[k] = v
	}
	merged[p.severityLabel] = level

	line, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	timestamp := strconv.FormatInt(timecache.CachedTimeNano(), 10)
	req := pushRequest{
		Streams: []stream{
			{
				Stream: merged,
				Values: [][2]string{{timestamp, string(line)}},
			},
		},
	}

	buf := p.bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		p.bufPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, buf)
	if err != nil {
		return &ConnectionError{URL: p.endpoint, Err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.auth != nil {
		httpReq.SetBasicAuth(p.auth.Username, p.auth.Password)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return &ConnectionError{URL: p.endpoint, Err: err}
	}
	defer resp.Body.Close()

	// Loki returns 204 No Content on success.
	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &PushError{
			StatusCode:   resp.StatusCode,
			ResponseText: string(body),
		}
	}

	return nil
}
