// Package transport sends canonical documents to the FNE API and maps HTTP
// outcomes to the typed errors of package fne.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is one outbound call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

// Response is what a Sender hands back. Senders fill Body, or Stream for a
// body that has not been read yet, or Decoded when they already hold the
// parsed JSON object.
type Response struct {
	StatusCode int
	Body       []byte
	Stream     io.ReadCloser
	Decoded    map[string]any
}

// Sender performs a single request. It returns an error only when no
// response was received.
type Sender interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// HTTPSender is the net/http Sender.
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender returns a sender with TLS 1.2+ and pooled connections.
// The per-request timeout is applied from Request.Timeout.
func NewHTTPSender() *HTTPSender {
	return &HTTPSender{
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewHTTPSenderWithClient wraps an existing client, e.g. one from httptest.
func NewHTTPSenderWithClient(c *http.Client) *HTTPSender {
	return &HTTPSender{client: c}
}

func (s *HTTPSender) Send(ctx context.Context, req *Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	b, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &Response{StatusCode: httpResp.StatusCode, Body: b}, nil
}

// payload returns the raw body, draining Stream if needed.
func (r *Response) payload() ([]byte, error) {
	if r.Body != nil || r.Stream == nil {
		return r.Body, nil
	}
	defer r.Stream.Close()
	b, err := io.ReadAll(r.Stream)
	if err != nil {
		return nil, fmt.Errorf("read response stream: %w", err)
	}
	r.Body = b
	r.Stream = nil
	return b, nil
}
