//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layoutparse/layoutparse/config"
	"github.com/layoutparse/layoutparse/document"
	"github.com/layoutparse/layoutparse/option"
)

func newTestDocument(t *testing.T) *document.Document {
	t.Helper()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Cell(40, 10, "Hello World")

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	doc, err := document.Resolve(path)
	require.NoError(t, err)
	return doc
}

func effectiveOptions(t *testing.T) option.Set {
	t.Helper()
	opts, err := option.Merge(nil, nil)
	require.NoError(t, err)
	return opts
}

func testAPI(endpoint string) config.API {
	return config.API{
		Token:      "test-token",
		Endpoint:   endpoint,
		MaxRetries: 3,
	}
}

func fastClient(api config.API) *Client {
	return New(api, WithBackoff(time.Millisecond, 2.0, 10*time.Millisecond))
}

func successBody() []byte {
	body, _ := json.Marshal(Response{
		LogID: "log-1",
		Result: &Result{
			LayoutParsingResults: []PageResult{
				{Blocks: []Block{{Type: "text", Content: "hello"}}},
			},
		},
	})
	return body
}

func TestBuildRequestPayload(t *testing.T) {
	doc := newTestDocument(t)
	opts := effectiveOptions(t)

	req, err := BuildRequest(doc, opts, testAPI("https://svc.example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, req.RequestID())
	assert.Equal(t, doc.Path, req.Path())
	assert.Equal(t, 1, req.Pages())
	assert.Positive(t, req.Size())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(req.body, &payload))
	assert.NotEmpty(t, payload["file"])
	assert.Equal(t, float64(0), payload["fileType"])
	assert.Equal(t, true, payload["useLayoutDetection"])
	// Locally consumed options never reach the payload.
	_, ok := payload["mergeTables"]
	assert.False(t, ok)
}

func TestBuildRequestMissingFile(t *testing.T) {
	doc := &document.Document{Path: filepath.Join(t.TempDir(), "absent.pdf"), Format: document.FormatPDF}

	_, err := BuildRequest(doc, effectiveOptions(t), testAPI("https://svc.example.com"))
	require.ErrorIs(t, err, document.ErrFileRead)
}

func TestDoSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write(successBody())
	}))
	defer srv.Close()

	req, err := BuildRequest(newTestDocument(t), effectiveOptions(t), testAPI(srv.URL))
	require.NoError(t, err)

	resp, err := fastClient(testAPI(srv.URL)).Do(context.Background(), req, option.ModeStandard)
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.LayoutParsingResults, 1)
	assert.Equal(t, "token test-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestDoRetriesTransientThenFails(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	api := testAPI(srv.URL)
	req, err := BuildRequest(newTestDocument(t), effectiveOptions(t), api)
	require.NoError(t, err)

	_, err = fastClient(api).Do(context.Background(), req, option.ModeStandard)
	require.ErrorIs(t, err, ErrService)
	assert.Equal(t, int32(api.MaxRetries+1), attempts.Load())
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(successBody())
	}))
	defer srv.Close()

	api := testAPI(srv.URL)
	req, err := BuildRequest(newTestDocument(t), effectiveOptions(t), api)
	require.NoError(t, err)

	resp, err := fastClient(api).Do(context.Background(), req, option.ModeFast)
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.NotNil(t, resp.Result)
}

func TestDoAuthFailureNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	api := testAPI(srv.URL)
	req, err := BuildRequest(newTestDocument(t), effectiveOptions(t), api)
	require.NoError(t, err)

	_, err = fastClient(api).Do(context.Background(), req, option.ModeStandard)
	require.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDoBadRequestNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	api := testAPI(srv.URL)
	req, err := BuildRequest(newTestDocument(t), effectiveOptions(t), api)
	require.NoError(t, err)

	_, err = fastClient(api).Do(context.Background(), req, option.ModeStandard)
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDoServiceErrorPayload(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		json.NewEncoder(w).Encode(Response{ErrorCode: 101, ErrorMsg: "model overloaded"})
	}))
	defer srv.Close()

	api := testAPI(srv.URL)
	req, err := BuildRequest(newTestDocument(t), effectiveOptions(t), api)
	require.NoError(t, err)

	_, err = fastClient(api).Do(context.Background(), req, option.ModeStandard)
	require.ErrorIs(t, err, ErrService)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDoUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	api := testAPI(srv.URL)
	req, err := BuildRequest(newTestDocument(t), effectiveOptions(t), api)
	require.NoError(t, err)

	_, err = fastClient(api).Do(context.Background(), req, option.ModeStandard)
	require.ErrorIs(t, err, ErrService)
}

func TestDoContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	api := testAPI(srv.URL)
	req, err := BuildRequest(newTestDocument(t), effectiveOptions(t), api)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(api, WithBackoff(time.Hour, 2.0, time.Hour)).Do(ctx, req, option.ModeStandard)
	require.ErrorIs(t, err, ErrService)
}

func TestTimeoutPerMode(t *testing.T) {
	c := New(config.API{})

	assert.Equal(t, 120*time.Second, c.Timeout(option.ModeFast, 1))
	assert.Equal(t, 300*time.Second, c.Timeout(option.ModeStandard, 1))
	assert.Equal(t, 600*time.Second, c.Timeout(option.ModeFine, 1))

	// Page scaling adds 10s per extra page...
	assert.Equal(t, 340*time.Second, c.Timeout(option.ModeStandard, 5))
	// ...capped at twice the mode base.
	assert.Equal(t, 240*time.Second, c.Timeout(option.ModeFast, 100))
}

func TestTimeoutOverride(t *testing.T) {
	c := New(config.API{Timeout: 42 * time.Second})
	assert.Equal(t, 42*time.Second, c.Timeout(option.ModeFine, 50))
}
