package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/workforcekit/sessionclient/internal"
	"golang.org/x/sync/singleflight"
)

// Client defines a public type used by sessionclient APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// Construct through [Builder.Build]; the zero value is not usable.
type Client struct {
	config   Config
	http     *http.Client
	store    SessionStore
	notifier Notifier
	metrics  *Metrics
	audit    *auditDispatcher

	refreshGroup singleflight.Group
}

// requestRecord is the in-flight state of one logical request. The retried
// flag lives here so concurrent requests recover independently; it is never
// shared state.
type requestRecord struct {
	method    string
	path      string
	url       string
	headers   http.Header
	body      []byte
	requestID string
	retried   bool
}

// wireResponse is a fully drained HTTP response. Draining before
// classification keeps the connection reusable across a replay.
type wireResponse struct {
	status int
	header http.Header
	body   []byte
}

func (w *wireResponse) ok() bool {
	return w.status >= 200 && w.status < 300
}

/*
====================================
REQUEST OPTIONS
====================================
*/

type requestOptions struct {
	headers      http.Header
	query        url.Values
	contentType  string
	absolutePath bool
}

// RequestOption customizes a single request issued through the client.
type RequestOption func(*requestOptions)

// WithHeader adds a header to the outgoing request (and to its replay).
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Add(key, value)
	}
}

// WithQuery adds a query parameter to the request URL.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		o.query.Add(key, value)
	}
}

// WithContentType overrides the Content-Type derived from the body value.
func WithContentType(contentType string) RequestOption {
	return func(o *requestOptions) {
		o.contentType = contentType
	}
}

// WithAbsolutePath skips the role path prefix for this request. The path is
// resolved against the base URL only, which is how cross-role endpoints such
// as the chat service are reached.
func WithAbsolutePath() RequestOption {
	return func(o *requestOptions) {
		o.absolutePath = true
	}
}

/*
====================================
VERBS
====================================
*/

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post describes the post operation and its observable behavior.
//
// Post may return an error when input validation, dependency calls, or security checks fail.
// Post does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put describes the put operation and its observable behavior.
//
// Put may return an error when input validation, dependency calls, or security checks fail.
// Put does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch describes the patch operation and its observable behavior.
//
// Patch may return an error when input validation, dependency calls, or security checks fail.
// Patch does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do issues one request with full recovery semantics. The body is captured
// as bytes up front so the recovery coordinator can replay it exactly once.
//
// Do may return an error when input validation, dependency calls, or security checks fail.
// Do does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	if c == nil || c.http == nil || c.store == nil {
		return nil, ErrClientNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	payload, contentType, err := encodeBody(body, o.contentType)
	if err != nil {
		return nil, err
	}

	headers := o.headers
	if contentType != "" {
		if headers == nil {
			headers = http.Header{}
		}
		if headers.Get("Content-Type") == "" {
			headers.Set("Content-Type", contentType)
		}
	}

	rec := &requestRecord{
		method:    method,
		path:      path,
		url:       c.buildURL(path, o.query, o.absolutePath),
		headers:   headers,
		body:      payload,
		requestID: c.requestID(ctx),
	}

	if c.config.Recovery.ProactiveRefresh {
		c.maybeProactiveRefresh(ctx)
	}

	start := time.Now()
	wire, sendErr := c.send(ctx, rec)
	c.metrics.Observe(MetricRequestLatency, time.Since(start))

	if sendErr != nil {
		c.metrics.Inc(MetricNetworkFailure)
		c.metrics.Inc(MetricRequestFailure)
		c.emitAudit(ctx, auditRequestFailed, rec, 0, sendErr.Error())
		return nil, fmt.Errorf("%w: %v", ErrNetwork, sendErr)
	}

	if wire.ok() {
		c.metrics.Inc(MetricRequestSuccess)
		return wire.response(), nil
	}

	return c.recoverResponse(ctx, rec, wire)
}

/*
====================================
TRANSPORT
====================================
*/

func (c *Client) send(ctx context.Context, rec *requestRecord) (*wireResponse, error) {
	var reader io.Reader
	if len(rec.body) > 0 {
		reader = bytes.NewReader(rec.body)
	}

	req, err := http.NewRequestWithContext(ctx, rec.method, rec.url, reader)
	if err != nil {
		return nil, err
	}

	for key, values := range rec.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("X-Request-ID", rec.requestID)
	if c.config.HTTP.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.HTTP.UserAgent)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return &wireResponse{
		status: res.StatusCode,
		header: res.Header,
		body:   data,
	}, nil
}

func (w *wireResponse) response() *Response {
	return &Response{
		StatusCode: w.status,
		Header:     w.header,
		Body:       w.body,
	}
}

func (c *Client) buildURL(path string, query url.Values, absolute bool) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	base := strings.TrimRight(c.config.BaseURL, "/")
	full := base + path
	if !absolute && c.config.Role.PathPrefix != "" && !strings.HasPrefix(path, c.config.Role.PathPrefix) {
		full = base + c.config.Role.PathPrefix + path
	}

	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

func (c *Client) requestID(ctx context.Context) string {
	if id := requestIDFromContext(ctx); id != "" {
		return id
	}
	return internal.NewRequestID()
}

/*
====================================
ACCESSORS
====================================
*/

// Role returns the role this client is scoped to.
func (c *Client) Role() Role {
	return c.config.Role.Name
}

// Sessions returns the session store backing this client.
func (c *Client) Sessions() SessionStore {
	return c.store
}

// Metrics returns the client's metrics registry. Nil-safe snapshots are
// available even when metrics are disabled.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// MetricsSnapshot returns a point-in-time copy of every counter and
// histogram. Exporters consume this instead of the registry itself.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped because the
// dispatcher buffer was full.
func (c *Client) AuditDropped() uint64 {
	return c.audit.Dropped()
}

// Close flushes and stops the audit dispatcher. The client must not be used
// after Close.
func (c *Client) Close() {
	c.audit.Close()
}

func (c *Client) emitAudit(ctx context.Context, eventType string, rec *requestRecord, status int, errMsg string) {
	if c.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Role:      c.config.Role.Name,
		Status:    status,
		Success:   errMsg == "",
		Error:     errMsg,
	}
	if rec != nil {
		event.RequestID = rec.requestID
		event.Method = rec.method
		event.Path = rec.path
	}

	c.audit.Emit(ctx, event)
}

/*
====================================
BODY CODECS
====================================
*/

func encodeBody(body any, contentType string) ([]byte, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, contentType, nil
	case []byte:
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return v, contentType, nil
	case string:
		if contentType == "" {
			contentType = "text/plain; charset=utf-8"
		}
		return []byte(v), contentType, nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return data, contentType, nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		if contentType == "" {
			contentType = "application/json"
		}
		return data, contentType, nil
	}
}

func decodeJSON(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidBody)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}
