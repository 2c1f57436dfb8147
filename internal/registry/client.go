// Package registry is the HTTP client for the GS1 Global Registry Platform.
//
// The client issues exactly one request per call, never retries, and never
// picks a protocol revision on its own: callers build a Request from
// RoutesFor(version). Response bodies are classified rather than trusted;
// see Body.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"linkgateway/pkg/requestcontext"
)

// Outbound headers the registry expects.
const (
	HeaderAPIKey       = "APIkey"
	HeaderCacheControl = "Cache-control"
)

// maxResponseBytes bounds how much of a registry response is read.
const maxResponseBytes = 10 << 20

const tracerName = "linkgateway/internal/registry"

// Doer is the subset of *http.Client the registry client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Observer receives one latency observation per call. status is 0 when no
// response arrived.
type Observer interface {
	ObserveRegistryCall(operation string, status int, d time.Duration)
}

// Response is a registry answer: the raw status plus the classified body.
type Response struct {
	Status int
	Header http.Header
	Body   Body
}

// OK reports whether the status is 2xx. The payload is not inspected.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

// Client calls the registry with the configured API key.
type Client struct {
	baseURL  string
	apiKey   string
	http     Doer
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithObserver reports call latencies to o.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a registry client. An empty apiKey is accepted; every call then
// fails with a configuration error before anything is sent.
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    newHTTPClient(timeout),
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newHTTPClient never follows redirects: a 3xx comes back as the response,
// so each call stays one request and the API key never reaches another host.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// APIKeyConfigured reports whether calls can be authenticated.
func (c *Client) APIKeyConfigured() bool {
	return c.apiKey != ""
}

// Call sends req and returns the registry's response. A non-nil error means
// no status is known: a missing API key (configuration error) or a transport
// failure. Non-2xx answers are returned as responses, not errors.
func (c *Client) Call(ctx context.Context, req Request) (*Response, error) {
	if !c.APIKeyConfigured() {
		return nil, ErrMissingAPIKey()
	}

	ctx, span := c.tracer.Start(ctx, "registry."+req.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer span.End()

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		return nil, newTransportError(req.Operation, FailureBadRequest, err)
	}

	requestID := requestcontext.RequestID(ctx)
	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req.Operation, 0, time.Since(start))
		category := classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(category))
		c.logger.ErrorContext(ctx, "registry call failed",
			"operation", req.Operation,
			"method", req.Method,
			"path", req.Path,
			"category", string(category),
			"error", err,
			"request_id", requestID,
		)
		return nil, newTransportError(req.Operation, category, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	c.observe(req.Operation, httpResp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(FailureReadBody))
		c.logger.ErrorContext(ctx, "registry response unreadable",
			"operation", req.Operation,
			"status", httpResp.StatusCode,
			"error", err,
			"request_id", requestID,
		)
		return nil, newTransportError(req.Operation, FailureReadBody, err)
	}

	resp := &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   decodeBody(raw),
	}
	if !resp.OK() {
		span.SetStatus(codes.Error, http.StatusText(resp.Status))
	}

	c.logger.DebugContext(ctx, "registry call completed",
		"operation", req.Operation,
		"method", req.Method,
		"path", req.Path,
		"status", resp.Status,
		"parsed", resp.Body.Parsed(),
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)
	return resp, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.Operation, err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set(HeaderAPIKey, c.apiKey)
	httpReq.Header.Set(HeaderCacheControl, "no-cache")
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

func (c *Client) observe(operation string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRegistryCall(operation, status, d)
	}
}
