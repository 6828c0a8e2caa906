// Package client provides typed HTTP access to one downstream service per
// Client. Every call returns the service's JSON envelope or a classified
// error carrying the downstream's own error payload, so resolvers can relay
// a meaningful message instead of a generic failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/3a-softwares/E-Storefront-Services/config"
	"github.com/3a-softwares/E-Storefront-Services/errors"
	"github.com/3a-softwares/E-Storefront-Services/metric"
)

// AuthHeader renders the Authorization header value for a bearer token.
// An empty token still yields "Bearer "; rejecting invalid tokens is the
// downstream service's responsibility.
func AuthHeader(token string) string {
	return "Bearer " + token
}

// CallOption mutates an outbound request before dispatch.
type CallOption func(*http.Request)

// WithAuth attaches the caller's bearer token to the request.
func WithAuth(token string) CallOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", AuthHeader(token))
	}
}

// Client is a preconfigured HTTP client for one downstream service.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics *metric.Metrics
}

// New creates a client for one downstream endpoint. metrics may be nil.
func New(ep config.Endpoint, timeout time.Duration, logger *slog.Logger, metrics *metric.Metrics) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		name:    ep.Name,
		baseURL: ep.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "client", "service", ep.Name),
		metrics: metrics,
	}
}

// Name returns the logical downstream service name.
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values, opts ...CallOption) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, opts...)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...CallOption) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, opts...)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...CallOption) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, opts...)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...CallOption) (*Envelope, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, opts...)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, opts ...CallOption) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, opts ...CallOption) (*Envelope, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Client", method, "marshal request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Client", method, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.observe(method, "error", duration)
		c.logger.Warn("downstream request failed",
			"method", method,
			"path", path,
			"duration", duration,
			"error", err)
		return nil, errors.WrapUnavailable(err, "Client", method, c.name+path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		c.observe(method, "error", duration)
		return nil, errors.WrapUnavailable(err, "Client", method, "read response body")
	}

	// Best effort: even error responses usually carry an envelope.
	env := &Envelope{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(method, "error", duration)
		c.logger.Warn("downstream returned error status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"duration", duration)
		return nil, c.statusError(method, path, resp.StatusCode, env)
	}

	c.observe(method, "success", duration)
	c.logger.Debug("downstream request succeeded",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", duration)
	return env, nil
}

func (c *Client) observe(method, outcome string, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.DownstreamRequests.WithLabelValues(c.name, method, outcome).Inc()
	c.metrics.DownstreamDuration.WithLabelValues(c.name, method).Observe(duration.Seconds())
}

// statusError builds the classified error for a non-2xx response.
func (c *Client) statusError(method, path string, status int, env *Envelope) error {
	se := &StatusError{Service: c.name, Status: status, Envelope: env}

	op := fmt.Sprintf("%s %s", method, path)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.WrapUnauthorized(se, "Client", method, op)
	case status == http.StatusNotFound:
		return errors.WrapNotFound(se, "Client", method, op)
	case status >= 500 || status == http.StatusRequestTimeout:
		return errors.WrapUnavailable(se, "Client", method, op)
	default:
		return errors.WrapInvalid(se, "Client", method, op)
	}
}

// StatusError is a non-2xx downstream response. It preserves the downstream
// envelope so callers can relay the service's own message.
type StatusError struct {
	Service  string
	Status   int
	Envelope *Envelope
}

// Error implements the error interface, preferring the downstream's message.
func (e *StatusError) Error() string {
	if msg := e.DownstreamMessage(); msg != "" {
		return msg
	}
	return fmt.Sprintf("%s service returned status %d", e.Service, e.Status)
}

// DownstreamMessage returns the message the downstream supplied, if any.
func (e *StatusError) DownstreamMessage() string {
	if e.Envelope == nil {
		return ""
	}
	if e.Envelope.Message != "" {
		return e.Envelope.Message
	}
	return e.Envelope.Error
}

// ErrorMessage extracts the most meaningful user-facing message from a
// downstream call error: the downstream's own message when one exists,
// otherwise the supplied fallback.
func ErrorMessage(err error, fallback string) string {
	var se *StatusError
	if stderrors.As(err, &se) {
		if msg := se.DownstreamMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
