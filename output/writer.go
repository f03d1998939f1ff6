//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// Package output materializes normalized results as markdown and JSON files
// under a destination directory, optionally mirroring each artifact to
// Tencent Cloud Object Storage.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/layoutparse/layoutparse/log"
	"github.com/layoutparse/layoutparse/normalize"
	"github.com/layoutparse/layoutparse/option"
)

// ErrWrite is returned on artifact I/O failure.
var ErrWrite = errors.New("output: write failed")

// Writer serializes normalized results to files.
type Writer struct {
	dir    string
	mirror *cosMirror
}

// Option configures a Writer.
type Option func(*Writer)

// WithCOSMirror mirrors every written artifact to the given COS bucket.
// Credentials are read from TCOS_SECRETID and TCOS_SECRETKEY.
func WithCOSMirror(bucketURL string) Option {
	return func(w *Writer) {
		if bucketURL != "" {
			w.mirror = newCOSMirror(bucketURL)
		}
	}
}

// New creates a Writer targeting dir. The directory is created on the first
// write.
func New(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write materializes the result for one source document. base is the source
// file name without extension; format selects markdown, json or both.
// Existing files of the same name are overwritten. It returns the paths of
// the files written.
func (w *Writer) Write(base string, res *normalize.Result, format option.OutputFormat) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrWrite, w.dir, err)
	}

	var paths []string
	if format == option.OutputMarkdown || format == option.OutputBoth {
		path := filepath.Join(w.dir, base+".md")
		if err := w.writeFile(path, []byte(res.Markdown)); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	if format == option.OutputJSON || format == option.OutputBoth {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("%w: encode json: %v", ErrWrite, err)
		}
		path := filepath.Join(w.dir, base+".json")
		if err := w.writeFile(path, append(data, '\n')); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	log.Debugf("wrote %s (%d bytes)", path, len(data))
	if w.mirror != nil {
		// Mirroring is best effort: the artifact is already on disk.
		if err := w.mirror.upload(path, data); err != nil {
			log.Warnf("mirror %s to COS: %v", path, err)
		}
	}
	return nil
}
