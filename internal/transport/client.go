package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

// Endpoint paths of the FNE API.
const (
	SignPath = "/external/invoices/sign"
)

// RefundPath returns the refund endpoint of invoiceID.
func RefundPath(invoiceID string) string {
	return "/external/invoices/" + invoiceID + "/refund"
}

// Client posts JSON documents to the FNE API with bearer authentication and
// retries server-class failures.
type Client struct {
	sender  Sender
	baseURL string
	apiKey  string
	timeout time.Duration
	retry   RetryPolicy
	sleep   SleepFunc
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithRetry replaces the default retry policy.
func WithRetry(p RetryPolicy) Option { return func(c *Client) { c.retry = p } }

// WithSleep replaces the backoff sleep, mostly for tests.
func WithSleep(s SleepFunc) Option { return func(c *Client) { c.sleep = s } }

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// NewClient returns a Client for baseURL. sender defaults to NewHTTPSender().
func NewClient(sender Sender, baseURL, apiKey string, opts ...Option) *Client {
	if sender == nil {
		sender = NewHTTPSender()
	}
	c := &Client{
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: 30 * time.Second,
		retry:   DefaultRetryPolicy(),
		sleep:   Sleep,
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Post sends body to path with the default timeout.
func (c *Client) Post(ctx context.Context, path string, body any) (map[string]any, error) {
	return c.PostWithTimeout(ctx, path, body, c.timeout)
}

// PostWithTimeout sends body to path and returns the decoded JSON object.
// Each attempt gets its own timeout.
func (c *Client) PostWithTimeout(ctx context.Context, path string, body any, timeout time.Duration) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req := &Request{
		Method: http.MethodPost,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Accept":        "application/json",
			"Authorization": "Bearer " + c.apiKey,
		},
		Body:    payload,
		Timeout: timeout,
	}

	var out map[string]any
	err = Retry(ctx, c.retry, c.sleep, func(attempt int) error {
		c.logger.Debug("fne request", "method", req.Method, "url", req.URL, "attempt", attempt)
		var aerr error
		out, aerr = c.do(ctx, req)
		if aerr != nil && fne.IsRetryable(aerr) && attempt < c.retry.MaxAttempts {
			c.logger.Warn("fne request failed, retrying",
				"url", req.URL, "attempt", attempt, "delay", c.retry.Delay(attempt), "error", aerr)
		}
		return aerr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, req *Request) (map[string]any, error) {
	resp, err := c.sender.Send(ctx, req)
	if err != nil {
		return nil, NetworkError(err)
	}
	if err := Classify(resp); err != nil {
		return nil, err
	}
	return Decode(resp)
}

// Decode returns the JSON object carried by a successful response.
func Decode(resp *Response) (map[string]any, error) {
	if resp.Decoded != nil {
		return resp.Decoded, nil
	}
	raw, err := resp.payload()
	if err != nil {
		return nil, &fne.DecodeError{Err: err}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &fne.DecodeError{Body: raw, Err: err}
	}
	if out == nil {
		return nil, &fne.DecodeError{Body: raw, Err: errors.New("response body is not a JSON object")}
	}
	return out, nil
}
