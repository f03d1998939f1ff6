//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package output

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
)

const cosUploadTimeout = 60 * time.Second

// cosMirror uploads written artifacts to a COS bucket under their base file
// name.
type cosMirror struct {
	client *cos.Client
}

func newCOSMirror(bucketURL string) *cosMirror {
	u, _ := url.Parse(bucketURL)
	httpClient := &http.Client{
		Timeout: cosUploadTimeout,
		Transport: &cos.AuthorizationTransport{
			SecretID:  os.Getenv("TCOS_SECRETID"),
			SecretKey: os.Getenv("TCOS_SECRETKEY"),
		},
	}
	return &cosMirror{client: cos.NewClient(&cos.BaseURL{BucketURL: u}, httpClient)}
}

func (m *cosMirror) upload(path string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), cosUploadTimeout)
	defer cancel()

	name := filepath.Base(path)
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: contentTypeFor(name),
		},
	}
	if _, err := m.client.Object.Put(ctx, name, bytes.NewReader(data), opt); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown"
	}
	return "application/octet-stream"
}
