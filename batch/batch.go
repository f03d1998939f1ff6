//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// Package batch orchestrates the per-file pipeline over a list of input
// documents using a bounded worker pool. Each file runs the full
// resolve → build → call → normalize → write sequence independently;
// one file's failure never aborts its siblings.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/layoutparse/layoutparse/client"
	"github.com/layoutparse/layoutparse/config"
	"github.com/layoutparse/layoutparse/document"
	"github.com/layoutparse/layoutparse/log"
	"github.com/layoutparse/layoutparse/normalize"
	"github.com/layoutparse/layoutparse/option"
	"github.com/layoutparse/layoutparse/output"
	"github.com/layoutparse/layoutparse/telemetry"
)

const defaultWorkers = 4

// Outcome is the result of one file's pipeline.
type Outcome struct {
	// Path is the source file.
	Path string
	// Artifacts lists the files written on success.
	Artifacts []string
	// Err is the per-file failure, nil on success.
	Err error
}

// Failed reports whether the file's pipeline failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// Summary aggregates a whole run.
type Summary struct {
	// RunID identifies the batch run in logs and traces.
	RunID string
	// Outcomes holds one entry per input file, in input order.
	Outcomes []Outcome
}

// Succeeded counts files that produced artifacts.
func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if !o.Failed() {
			n++
		}
	}
	return n
}

// Failed counts files whose pipeline failed.
func (s *Summary) Failed() int { return len(s.Outcomes) - s.Succeeded() }

// OK reports whether every file succeeded.
func (s *Summary) OK() bool { return s.Failed() == 0 }

// Runner processes batches of documents with one resolved option set.
type Runner struct {
	api     config.API
	opts    option.Set
	mode    option.Mode
	client  *client.Client
	writer  *output.Writer
	workers int
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of files processed concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// New creates a Runner. The option set and API configuration are read-only
// and shared across all concurrent file pipelines.
func New(api config.API, opts option.Set, mode option.Mode, cl *client.Client, w *output.Writer, ropts ...Option) *Runner {
	r := &Runner{
		api:     api,
		opts:    opts,
		mode:    mode,
		client:  cl,
		writer:  w,
		workers: defaultWorkers,
	}
	for _, opt := range ropts {
		opt(r)
	}
	return r
}

// fileTask carries one file through the worker pool.
type fileTask struct {
	idx      int
	ctx      context.Context
	path     string
	runner   *Runner
	outcomes []Outcome
	wg       *sync.WaitGroup
}

// Run processes every path and returns the aggregated summary. Per-file
// failures are captured in the summary; the returned error is reserved for
// pool construction failures. Cancelling ctx stops the launch of new files
// and propagates into in-flight service calls.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	summary := &Summary{
		RunID:    uuid.NewString(),
		Outcomes: make([]Outcome, len(paths)),
	}
	if len(paths) == 0 {
		return summary, nil
	}

	size := r.workers
	if size > len(paths) {
		size = len(paths)
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		task, ok := args.(*fileTask)
		if !ok {
			panic("batch: file task pool args type error")
		}
		defer task.wg.Done()
		task.outcomes[task.idx] = task.runner.processOne(task.ctx, task.path)
	})
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	ctx, span := telemetry.Tracer().Start(ctx, "batch.run")
	span.SetAttributes(
		attribute.String(telemetry.KeyRunID, summary.RunID),
		attribute.String(telemetry.KeyMode, string(r.mode)),
		attribute.Int("layoutparse.batch.size", len(paths)),
	)
	defer span.End()

	var wg sync.WaitGroup
	for i, path := range paths {
		if ctx.Err() != nil {
			summary.Outcomes[i] = Outcome{Path: path, Err: fmt.Errorf("run cancelled: %w", ctx.Err())}
			continue
		}
		wg.Add(1)
		task := &fileTask{
			idx:      i,
			ctx:      ctx,
			path:     path,
			runner:   r,
			outcomes: summary.Outcomes,
			wg:       &wg,
		}
		if err := pool.Invoke(task); err != nil {
			wg.Done()
			summary.Outcomes[i] = Outcome{Path: path, Err: fmt.Errorf("dispatch: %w", err)}
		}
	}
	wg.Wait()

	log.Infof("run %s: %d/%d files succeeded", summary.RunID, summary.Succeeded(), len(paths))
	return summary, nil
}

// processOne runs the full pipeline for a single file.
func (r *Runner) processOne(ctx context.Context, path string) Outcome {
	ctx, span := telemetry.Tracer().Start(ctx, "batch.file")
	span.SetAttributes(attribute.String(telemetry.KeyFilePath, path))
	defer span.End()

	outcome := Outcome{Path: path}
	fail := func(err error) Outcome {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("process %s: %v", path, err)
		outcome.Err = err
		return outcome
	}

	doc, err := document.Resolve(path)
	if err != nil {
		return fail(err)
	}

	req, err := client.BuildRequest(doc, r.opts, r.api)
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(
		attribute.String(telemetry.KeyRequestID, req.RequestID()),
		attribute.Int(telemetry.KeyFilePages, req.Pages()),
	)
	log.Infof("recognizing %s (%d pages, request %s)", path, req.Pages(), req.RequestID())

	resp, err := r.client.Do(ctx, req, r.mode)
	if err != nil {
		return fail(err)
	}

	res, err := normalize.Normalize(resp, r.opts)
	if err != nil {
		return fail(err)
	}
	quality := normalize.Quality(res.Markdown)
	if quality.Empty() {
		log.Warnf("%s produced no usable content", path)
	}
	log.Debugf("%s: %d chars, %d headings, %d tables, %d formulas",
		path, quality.Chars, quality.Headings, quality.Tables, quality.Formulas)

	artifacts, err := r.writer.Write(doc.Base(), res, r.opts.Format())
	if err != nil {
		return fail(err)
	}
	outcome.Artifacts = artifacts
	return outcome
}
