// Package webhook delivers mapped events to the data-platform webhook in
// fixed-size batches with a bounded retry loop per batch.
//
// The wire contract: POST <base-url>?EventName=<e>&KafkaTopicName=<t> with
// JSON body {"payload": [...]}; 200/201 is success, 400 is non-retryable,
// anything else (including network errors and timeouts) is retried with
// linear backoff.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Defaults applied by New when the config leaves fields zero.
const (
	DefaultBatchSize   = 200
	DefaultMaxAttempts = 3
	DefaultTimeout     = 30 * time.Second
	DefaultRetryDelay  = 500 * time.Millisecond
)

// Config holds the delivery client settings. An explicit struct (rather
// than ambient env lookups) keeps the client independently testable with
// injected fake endpoints and clocks.
type Config struct {
	// BaseURL is the webhook endpoint; EventName and KafkaTopicName are
	// appended as query parameters per batch.
	BaseURL string

	// Timeout bounds each individual POST (default 30s).
	Timeout time.Duration

	// BatchSize is the number of events per delivery call (default 200).
	BatchSize int

	// MaxAttempts is the attempt budget per batch (default 3).
	MaxAttempts int

	// RetryDelay is the linear backoff unit: the wait before attempt n+1
	// is RetryDelay * n (default 500ms).
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// SleepFunc waits for d or until ctx is done. Injected in tests to run
// the retry state machine without timers.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Client sends event batches to the webhook endpoint.
type Client struct {
	cfg   Config
	http  *http.Client
	sleep SleepFunc
}

// New creates a delivery client. Zero-valued config fields get defaults.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:   cfg,
		http:  &http.Client{},
		sleep: sleepWithContext,
	}
}

// WithSleep replaces the backoff wait, for tests.
func (c *Client) WithSleep(fn SleepFunc) *Client {
	c.sleep = fn
	return c
}

// WithHTTPClient replaces the underlying HTTP client, for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// DeliveryError reports a batch that could not be delivered after the
// retry budget (or was rejected as non-retryable). It carries the last
// observed status/detail but not which prior batches succeeded: the
// whole delivery must be treated as failed.
type DeliveryError struct {
	Status int
	Detail string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("webhook returned %d: %s", e.Status, e.Detail)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "failed to send to data platform webhook"
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Deliver sends all events for one upload. Events are split into batches
// and sent sequentially: a later batch is only attempted after the prior
// batch's full retry sequence completes. Empty input is an immediate
// no-op success.
func (c *Client) Deliver(ctx context.Context, eventName, kafkaTopic string, events []map[string]any) error {
	if len(events) == 0 {
		return nil
	}

	endpoint, err := c.endpoint(eventName, kafkaTopic)
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("invalid webhook URL: %w", err)}
	}

	for start := 0; start < len(events); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(events) {
			end = len(events)
		}
		if err := c.sendBatch(ctx, endpoint, eventName, events[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) endpoint(eventName, kafkaTopic string) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("EventName", eventName)
	q.Set("KafkaTopicName", kafkaTopic)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// attemptResult is the structured outcome of one POST attempt. Making the
// retry decision explicit keeps the state machine unit-testable.
type attemptResult struct {
	ok        bool
	retryable bool
	status    int
	detail    string
	err       error
}

// sendBatch runs the bounded retry loop for one batch: up to MaxAttempts
// POSTs, linear backoff between attempts, immediate failure on a
// non-retryable rejection.
func (c *Client) sendBatch(ctx context.Context, endpoint, eventName string, batch []map[string]any) error {
	body, err := json.Marshal(map[string]any{"payload": batch})
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("encode batch: %w", err)}
	}

	var last attemptResult
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		last = c.post(ctx, endpoint, body)
		if last.ok {
			return nil
		}

		slog.Error("webhook batch attempt failed",
			"event_name", eventName,
			"attempt", attempt,
			"status", last.status,
			"detail", last.detail,
			"error", last.err,
		)

		if !last.retryable {
			return &DeliveryError{Status: last.status, Detail: last.detail, Err: last.err}
		}

		if attempt < c.cfg.MaxAttempts {
			if err := c.sleep(ctx, c.cfg.RetryDelay*time.Duration(attempt)); err != nil {
				return &DeliveryError{Err: err}
			}
		}
	}

	return &DeliveryError{Status: last.status, Detail: last.detail, Err: last.err}
}

// post performs a single timed POST and classifies the outcome.
func (c *Client) post(ctx context.Context, endpoint string, body []byte) attemptResult {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return attemptResult{retryable: true, err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return attemptResult{retryable: true, err: fmt.Errorf("request timed out")}
		}
		return attemptResult{retryable: true, err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return attemptResult{ok: true, status: resp.StatusCode}
	}

	return attemptResult{
		// 400 means the request itself is malformed; retrying cannot help.
		retryable: resp.StatusCode != http.StatusBadRequest,
		status:    resp.StatusCode,
		detail:    responseDetail(raw),
	}
}

// responseDetail extracts the most useful error text from a response
// body: JSON "error" or "message" fields when present, raw text
// otherwise.
func responseDetail(raw []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if msg, ok := parsed["error"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := parsed["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return "(empty)"
}

// sleepWithContext waits without blocking other in-flight requests and
// returns early if the request context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
