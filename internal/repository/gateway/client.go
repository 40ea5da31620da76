// Package gateway is a typed client for the hosted backend: a GoTrue-style
// auth API under /auth/v1 and a PostgREST-style row API under /rest/v1.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"weather_dashboard/internal/metrics"

	"github.com/sony/gobreaker"
)

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL        string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// Client talks to the gateway. It is safe for concurrent use and is meant to
// be built once and injected into the repositories.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker
}

var (
	ErrNoServiceKey = errors.New("gateway: service role key not configured")
	ErrCircuitOpen  = errors.New("gateway: circuit breaker open")
)

// New builds a Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    opts.BaseURL,
		anonKey:    opts.AnonKey,
		serviceKey: opts.ServiceRoleKey,
		http:       hc,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "gateway",
			MaxRequests: 5,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			// Rejections (4xx) are answers, not outages.
			IsSuccessful: func(err error) bool {
				var gwErr *Error
				if errors.As(err, &gwErr) {
					return gwErr.Status < http.StatusInternalServerError
				}
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// HasServiceKey reports whether admin endpoints can be called.
func (c *Client) HasServiceKey() bool { return c.serviceKey != "" }

// request describes one gateway call.
type request struct {
	op      string // metrics label
	method  string
	path    string // path plus encoded query
	bearer  string // token for Authorization; anon key when empty
	apiKey  string // apikey header; anon key when empty
	body    any
	headers map[string]string
}

// do executes req through the circuit breaker. A nil out discards the body.
// The response headers are returned for callers that read Content-Range.
func (c *Client) do(ctx context.Context, req request, out any) (http.Header, error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.GatewayRequestsTotal.WithLabelValues(req.op, status).Inc()
		metrics.GatewayRequestDuration.WithLabelValues(req.op).Observe(time.Since(start).Seconds())
	}()

	var payload []byte
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.op, err)
		}
		payload = b
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		c.setHeaders(httpReq, req)

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		status = strconv.Itoa(resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, parseError(resp.StatusCode, body)
		}
		if out != nil && len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				return nil, fmt.Errorf("decode %s response: %w", req.op, err)
			}
		}
		return resp.Header, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "circuit_open"
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}
	hdr, _ := result.(http.Header)
	return hdr, nil
}

func (c *Client) setHeaders(r *http.Request, req request) {
	apiKey := req.apiKey
	if apiKey == "" {
		apiKey = c.anonKey
	}
	bearer := req.bearer
	if bearer == "" {
		bearer = apiKey
	}
	r.Header.Set("apikey", apiKey)
	r.Header.Set("Authorization", "Bearer "+bearer)
	r.Header.Set("Accept", "application/json")
	if req.body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
}
