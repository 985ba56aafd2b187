package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pns-snapshot/core/metrics"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is used when the configured attempt timeout is not positive.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response body is kept for errors.
	maxErrorBody = 512
)

// Request is one GraphQL operation.
type Request struct {
	// OperationName labels logs and metrics and selects the operation in Query.
	OperationName string `json:"operationName,omitempty"`
	// Query is the static document.
	Query string `json:"query"`
	// Variables carries pagination offsets and ids.
	Variables map[string]any `json:"variables,omitempty"`
}

// Querier executes GraphQL operations and decodes the data field into out.
type Querier interface {
	Query(ctx context.Context, req Request, out any) error
}

// Client is the HTTP implementation of Querier.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a transport for cfg.Endpoint.
func NewClient(cfg Config, log *zap.Logger, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.Nop()
	}
	return c
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query posts req and decodes the response data into out, retrying transient failures.
func (c *Client) Query(ctx context.Context, req Request, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("graph %s: failed to encode request: %w", req.OperationName, err)
	}

	attempt := 0
	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		err := c.do(ctx, req.OperationName, body, out)
		if err == nil {
			return nil
		}
		if IsTransient(err) && ctx.Err() == nil {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		c.metrics.GraphRetries.WithLabelValues(req.OperationName).Inc()
		c.log.Warn("Retrying graph request",
			zap.String("operation", req.OperationName),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	return backoff.RetryNotify(operation, c.policy(ctx), notify)
}

func (c *Client) policy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Duration(c.cfg.RetryDelayMS) * time.Millisecond
	if eb.InitialInterval <= 0 {
		eb.InitialInterval = time.Second
	}
	eb.MaxElapsedTime = 0

	retries := c.cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// do performs a single attempt under its own deadline.
func (c *Client) do(ctx context.Context, op string, body []byte, out any) error {
	timeout := time.Duration(c.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := c.roundTrip(actx, op, body, out)

	outcome := "ok"
	switch {
	case err == nil:
	case IsTransient(err):
		outcome = "transient"
	default:
		outcome = "error"
	}
	c.metrics.ObserveRequest(op, outcome, time.Since(start))
	return err
}

func (c *Client) roundTrip(ctx context.Context, op string, body []byte, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graph %s: failed to build request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &TransientError{Operation: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransientError{Operation: op, StatusCode: resp.StatusCode, Err: errors.New(string(snippet))}
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &TransientError{Operation: op, StatusCode: resp.StatusCode, Err: err}
		}
		return &ResponseError{Operation: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return &ResponseError{Operation: op, Messages: msgs}
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return &ResponseError{Operation: op, Err: ErrNoData}
	}

	dec := json.NewDecoder(bytes.NewReader(env.Data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &ResponseError{Operation: op, Err: fmt.Errorf("failed to decode data: %w", err)}
	}
	return nil
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(ctx context.Context, req Request, out any) error

// Query calls f.
func (f QuerierFunc) Query(ctx context.Context, req Request, out any) error {
	return f(ctx, req, out)
}
