//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//

package client

import "errors"

// Sentinel errors for service invocation.
var (
	// ErrAuth is returned on 401/403 responses. Never retried.
	ErrAuth = errors.New("client: authentication failed")

	// ErrBadRequest is returned on non-retryable 4xx responses. Never
	// retried.
	ErrBadRequest = errors.New("client: service rejected request")

	// ErrService is returned when transient failures exhaust the retry
	// budget, or when the service reports an error payload.
	ErrService = errors.New("client: service call failed")
)
