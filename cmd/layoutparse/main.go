//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// layoutparse converts local PDF and image documents into Markdown/JSON by
// calling a remote layout-parsing service.
//
// Usage:
//
//	layoutparse [flags] file...
//
// Arguments may be plain paths or doublestar glob patterns
// (e.g. "docs/**/*.pdf").
//
// Flags:
//
//	-mode string     preset mode: fast, standard or fine (default "standard")
//	-output string   output directory (default from config, else "output")
//	-config string   path to the YAML configuration file
//	-workers int     concurrent file limit (default 4)
//	-log-level string  debug, info, warn, error or fatal (default "info")
//
// Required environment:
//
//	LAYOUTPARSE_TOKEN    access token for the service
//	LAYOUTPARSE_API_URL  service endpoint URL
//
// Exit codes: 0 all files succeeded, 1 at least one file failed,
// 2 configuration or usage error.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/layoutparse/layoutparse/batch"
	"github.com/layoutparse/layoutparse/client"
	"github.com/layoutparse/layoutparse/config"
	"github.com/layoutparse/layoutparse/document"
	"github.com/layoutparse/layoutparse/log"
	"github.com/layoutparse/layoutparse/option"
	"github.com/layoutparse/layoutparse/output"
	"github.com/layoutparse/layoutparse/telemetry"
)

const (
	exitOK = iota
	exitFailedFiles
	exitUsage
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		modeFlag   = flag.String("mode", "standard", "preset mode: fast, standard or fine")
		outputFlag = flag.String("output", "", "output directory (default from config)")
		configFlag = flag.String("config", "", "path to the YAML configuration file")
		workers    = flag.Int("workers", 4, "concurrent file limit")
		logLevel   = flag.String("log-level", log.LevelInfo, "log level: debug, info, warn, error or fatal")
	)
	flag.Parse()
	log.SetLevel(*logLevel)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: layoutparse [flags] file...")
		flag.PrintDefaults()
		return exitUsage
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Errorf("configuration: %v", err)
		return exitUsage
	}

	mode, err := option.ParseMode(*modeFlag)
	if err != nil {
		log.Errorf("%v", err)
		return exitUsage
	}
	overlay, err := option.Overlay(mode)
	if err != nil {
		log.Errorf("%v", err)
		return exitUsage
	}
	effective, err := option.Merge(overlay, cfg.Options)
	if err != nil {
		log.Errorf("%v", err)
		return exitUsage
	}

	files, err := collectFiles(flag.Args())
	if err != nil {
		log.Errorf("%v", err)
		return exitUsage
	}
	if len(files) == 0 {
		log.Error("no valid files to process")
		return exitUsage
	}

	outDir := cfg.OutputDir
	if *outputFlag != "" {
		outDir = *outputFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Warnf("telemetry disabled: %v", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warnf("telemetry shutdown: %v", err)
		}
	}()

	runner := batch.New(
		cfg.API,
		effective,
		mode,
		client.New(cfg.API),
		output.New(outDir, output.WithCOSMirror(cfg.COSBucketURL)),
		batch.WithWorkers(*workers),
	)
	summary, err := runner.Run(ctx, files)
	if err != nil {
		log.Errorf("run: %v", err)
		return exitFailedFiles
	}

	printSummary(summary)
	if !summary.OK() {
		return exitFailedFiles
	}
	return exitOK
}

// collectFiles expands glob patterns and drops files that cannot be
// processed, warning about each skip.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches := []string{arg}
		if strings.ContainsAny(arg, "*?[{") {
			var err error
			matches, err = doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				log.Warnf("pattern %q matched no files", arg)
				continue
			}
		}
		for _, match := range matches {
			if !document.Supported(match) {
				log.Warnf("skipping %s: unsupported format", match)
				continue
			}
			if _, err := os.Stat(match); err != nil {
				log.Warnf("skipping %s: %v", match, err)
				continue
			}
			files = append(files, match)
		}
	}
	return files, nil
}

func printSummary(summary *batch.Summary) {
	fmt.Printf("processed %d/%d files successfully\n", summary.Succeeded(), len(summary.Outcomes))
	for _, o := range summary.Outcomes {
		if o.Failed() {
			fmt.Printf("  FAIL %s: %v\n", o.Path, o.Err)
			continue
		}
		fmt.Printf("  OK   %s -> %s\n", o.Path, strings.Join(o.Artifacts, ", "))
	}
}
