// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package transport is the shared HTTP collaborator: plain verbs, bearer
// header mutation, and a retry policy for idempotent requests. Callers own
// status-code interpretation; this layer only fails on transport errors.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Defaults for the client configuration.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryBase  = 250 * time.Millisecond
)

// Response is the raw outcome of a request.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return oops.Code("TRANSPORT_DECODE_FAILED").
			With("status", r.StatusCode).
			Wrap(err)
	}
	return nil
}

// API is the verb surface the core consumes. Retry and timeout policy stay
// inside the implementation; callers never see them.
type API interface {
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string, body any) (*Response, error)
	Put(ctx context.Context, path string, body any) (*Response, error)
	Patch(ctx context.Context, path string, body any) (*Response, error)
	Delete(ctx context.Context, path string) (*Response, error)
	SetBearerToken(token string)
	RemoveBearerToken()
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	RetryBase  time.Duration
}

// Client implements API over net/http.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	retryBase  time.Duration

	mu     sync.RWMutex
	bearer string
}

// NewClient creates a Client. BaseURL must be an absolute http(s) URL.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, oops.With("base_url", cfg.BaseURL).
			Errorf("transport requires an absolute base URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = DefaultRetryBase
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryBase:  cfg.RetryBase,
	}, nil
}

// SetBearerToken installs the token sent on subsequent requests.
func (c *Client) SetBearerToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = token
}

// RemoveBearerToken clears the installed token.
func (c *Client) RemoveBearerToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = ""
}

// Get performs a GET. Network failures and 5xx responses are retried with
// capped exponential backoff; GET is the only retried verb because the
// login POST is not idempotent.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	var resp *Response
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return retry.RetryableError(err)
		}
		if r.StatusCode >= 500 {
			resp = r
			return retry.RetryableError(fmt.Errorf("server error: status %d", r.StatusCode))
		}
		resp = r
		return nil
	})
	if err != nil && resp == nil {
		return nil, oops.Code("TRANSPORT_REQUEST_FAILED").
			With("method", http.MethodGet).
			With("path", path).
			Wrap(err)
	}
	return resp, nil
}

// Post performs a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.once(ctx, http.MethodPost, path, body)
}

// Put performs a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.once(ctx, http.MethodPut, path, body)
}

// Patch performs a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.once(ctx, http.MethodPatch, path, body)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.once(ctx, http.MethodDelete, path, nil)
}

func (c *Client) once(ctx context.Context, method, path string, body any) (*Response, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, oops.Code("TRANSPORT_REQUEST_FAILED").
			With("method", method).
			With("path", path).
			Wrap(err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	c.mu.RUnlock()

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close() //nolint:errcheck // best-effort close after full read

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}
