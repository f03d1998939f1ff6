//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package client

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/layoutparse/layoutparse/config"
	"github.com/layoutparse/layoutparse/document"
	"github.com/layoutparse/layoutparse/option"
)

// Request is a fully assembled service request: endpoint, credential,
// encoded document payload and effective options. It is immutable once
// built; the body is marshaled exactly once.
type Request struct {
	endpoint  string
	token     string
	body      []byte
	requestID string
	path      string
	pages     int
	size      int64
}

// BuildRequest reads and encodes the document and assembles the request
// payload from the effective option set. No network access happens here.
func BuildRequest(doc *document.Document, opts option.Set, api config.API) (*Request, error) {
	encoded, size, err := doc.Encode()
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"file":     encoded,
		"fileType": doc.FileType(),
	}
	for key, value := range opts.WirePayload() {
		payload[key] = value
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	return &Request{
		endpoint:  api.Endpoint,
		token:     api.Token,
		body:      body,
		requestID: uuid.NewString(),
		path:      doc.Path,
		pages:     doc.PageCount(),
		size:      size,
	}, nil
}

// RequestID returns the client-generated identifier attached to the request.
func (r *Request) RequestID() string { return r.requestID }

// Path returns the source file path the request was built from.
func (r *Request) Path() string { return r.path }

// Pages returns the page count used for timeout scaling.
func (r *Request) Pages() int { return r.pages }

// Size returns the raw document size in bytes.
func (r *Request) Size() int64 { return r.size }
