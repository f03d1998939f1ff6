//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// Package client builds layout-parsing service requests and sends them over
// HTTPS with per-mode timeouts and bounded exponential-backoff retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/layoutparse/layoutparse/config"
	"github.com/layoutparse/layoutparse/log"
	"github.com/layoutparse/layoutparse/option"
)

const (
	defaultInitialBackoff = 1 * time.Second
	defaultBackoffFactor  = 2.0
	defaultMaxBackoff     = 30 * time.Second

	// perPageTimeout extends the mode base timeout for multi-page PDFs.
	perPageTimeout = 10 * time.Second
)

// modeTimeouts are the base request timeouts per mode. Fine mode runs every
// enricher on the service side and needs the longest budget.
var modeTimeouts = map[option.Mode]time.Duration{
	option.ModeFast:     120 * time.Second,
	option.ModeStandard: 300 * time.Second,
	option.ModeFine:     600 * time.Second,
}

// Client sends assembled requests to the layout-parsing service.
type Client struct {
	api            config.API
	httpClient     *http.Client
	initialBackoff time.Duration
	backoffFactor  float64
	maxBackoff     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBackoff tunes the retry backoff schedule.
func WithBackoff(initial time.Duration, factor float64, max time.Duration) Option {
	return func(c *Client) {
		if initial > 0 {
			c.initialBackoff = initial
		}
		if factor >= 1 {
			c.backoffFactor = factor
		}
		if max >= c.initialBackoff {
			c.maxBackoff = max
		}
	}
}

// New creates a Client for the given API configuration.
func New(api config.API, opts ...Option) *Client {
	c := &Client{
		api:            api,
		httpClient:     &http.Client{},
		initialBackoff: defaultInitialBackoff,
		backoffFactor:  defaultBackoffFactor,
		maxBackoff:     defaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the request timeout for one document: the configured
// override when set, otherwise the mode base scaled by page count and
// capped at twice the base.
func (c *Client) Timeout(mode option.Mode, pages int) time.Duration {
	if c.api.Timeout > 0 {
		return c.api.Timeout
	}
	base, ok := modeTimeouts[mode]
	if !ok {
		base = modeTimeouts[option.ModeStandard]
	}
	timeout := base
	if pages > 1 {
		timeout += time.Duration(pages-1) * perPageTimeout
	}
	if timeout > 2*base {
		timeout = 2 * base
	}
	return timeout
}

// Do sends the request and returns the decoded service response. Transient
// failures (network errors, 408/429, 5xx) are retried with exponential
// backoff up to the configured budget; authentication and other client
// errors fail immediately.
func (c *Client) Do(ctx context.Context, req *Request, mode option.Mode) (*Response, error) {
	timeout := c.Timeout(mode, req.pages)
	backoff := c.initialBackoff
	var lastErr error

	for attempt := 0; attempt <= c.api.MaxRetries; attempt++ {
		resp, retryable, err := c.attempt(ctx, req, timeout)
		if err == nil {
			if attempt > 0 {
				log.Debugf("request %s succeeded after %d attempts", req.requestID, attempt+1)
			}
			return resp, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		if attempt >= c.api.MaxRetries {
			break
		}
		log.Warnf("request %s attempt %d/%d failed, retrying in %s: %v",
			req.requestID, attempt+1, c.api.MaxRetries+1, backoff, err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: cancelled during retry backoff: %v", ErrService, ctx.Err())
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * c.backoffFactor)
			if backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
		}
	}
	return nil, fmt.Errorf("%w: retries exhausted after %d attempts: %v", ErrService, c.api.MaxRetries+1, lastErr)
}

// attempt performs one HTTP round-trip. The second return value reports
// whether the failure is transient.
func (c *Client) attempt(ctx context.Context, req *Request, timeout time.Duration) (*Response, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, req.endpoint, bytes.NewReader(req.body))
	if err != nil {
		return nil, false, fmt.Errorf("%w: build request: %v", ErrService, err)
	}
	httpReq.Header.Set("Authorization", "token "+req.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", req.requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network-level failures are transient unless the caller is gone.
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrService, ctx.Err())
		}
		return nil, true, fmt.Errorf("%w: %v", ErrService, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read response: %v", ErrService, err)
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrAuth, httpResp.StatusCode, trim(body))
	case httpResp.StatusCode == http.StatusRequestTimeout || httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: status %d: %s", ErrService, httpResp.StatusCode, trim(body))
	case httpResp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d: %s", ErrService, httpResp.StatusCode, trim(body))
	case httpResp.StatusCode >= 400:
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrBadRequest, httpResp.StatusCode, trim(body))
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, fmt.Errorf("%w: undecodable response body: %v", ErrService, err)
	}
	if resp.ErrorCode != 0 {
		return nil, false, fmt.Errorf("%w: service error %d: %s", ErrService, resp.ErrorCode, resp.ErrorMsg)
	}
	return &resp, false, nil
}

// trim bounds an error body so failures stay loggable.
func trim(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
