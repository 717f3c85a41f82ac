// Package webhook posts distance reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ccollicutt/locdist/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// EventDistanceComputed is the event name carried by every payload.
const EventDistanceComputed = "distance.computed"

const (
	userAgent       = "locdist-webhook"
	maxResponseBody = 1 << 20
)

// Payload is the JSON body posted to a webhook.
type Payload struct {
	Event  string         `json:"event"`
	Report *output.Report `json:"report"`
}

// Client sends reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used by Dispatch.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new webhook client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		userAgent:  userAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Target is one endpoint a report is delivered to.
type Target struct {
	Name    string
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	Target     string
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts a report to a single endpoint.
func (c *Client) Send(ctx context.Context, report *output.Report, target Target) *Response {
	start := time.Now()
	resp := &Response{Target: target.Name}
	if resp.Target == "" {
		resp.Target = target.URL
	}

	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	payload, err := json.Marshal(Payload{Event: EventDistanceComputed, Report: report})
	if err != nil {
		return fail(fmt.Errorf("marshaling report: %w", err))
	}

	timeout := target.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if report != nil {
		req.Header.Set("X-Locdist-Run-Id", report.Metadata.RunID)
	}
	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return fail(fmt.Errorf("reading response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}

// Dispatch sends the report to every target in order and returns one
// response per target. A failing target does not stop the others.
// Outcomes are logged at debug level; reporting failures is left to the
// caller.
func (c *Client) Dispatch(ctx context.Context, report *output.Report, targets []Target) []*Response {
	responses := make([]*Response, 0, len(targets))
	for _, target := range targets {
		resp := c.Send(ctx, report, target)
		if resp.Success() {
			c.logger.DebugContext(ctx, "webhook delivered",
				"target", resp.Target, "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			c.logger.DebugContext(ctx, "webhook failed", "target", resp.Target, "error", resp.Error)
		}
		responses = append(responses, resp)
	}
	return responses
}
