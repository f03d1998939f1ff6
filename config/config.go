//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// Package config resolves run-level configuration for layoutparse: the
// service credential and endpoint, client tuning, output settings, and the
// explicit option overrides from an optional YAML configuration file.
//
// Configuration is resolved exactly once at startup; the resulting Config is
// passed by value into the pipeline so that no component reads ambient
// process state. A YAML file is loaded first, then environment variables
// override it.
//
// Recognized environment variables:
//
//	LAYOUTPARSE_TOKEN        access token (required)
//	LAYOUTPARSE_API_URL      service endpoint URL (required)
//	LAYOUTPARSE_TIMEOUT      request timeout in seconds (optional)
//	LAYOUTPARSE_MAX_RETRIES  transient-failure retry budget (optional)
//	LAYOUTPARSE_COS_BUCKET_URL  COS bucket for artifact mirroring (optional)
//	LAYOUTPARSE_OTLP_ENDPOINT   OTLP/HTTP trace collector (optional)
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/layoutparse/layoutparse/option"
)

// ErrConfiguration is returned when required configuration is missing or
// unusable. It aborts the run before any file is processed.
var ErrConfiguration = errors.New("config: invalid configuration")

const (
	envToken      = "LAYOUTPARSE_TOKEN"
	envEndpoint   = "LAYOUTPARSE_API_URL"
	envTimeout    = "LAYOUTPARSE_TIMEOUT"
	envMaxRetries = "LAYOUTPARSE_MAX_RETRIES"
	envBucketURL  = "LAYOUTPARSE_COS_BUCKET_URL"
	envOTLP       = "LAYOUTPARSE_OTLP_ENDPOINT"

	defaultMaxRetries = 3
	defaultOutputDir  = "output"
)

// API holds everything the service client needs to reach the remote
// layout-parsing endpoint.
type API struct {
	// Token is the bearer credential sent with every request.
	Token string
	// Endpoint is the HTTPS URL of the layout-parsing service.
	Endpoint string
	// Timeout overrides the per-mode request timeout when non-zero.
	Timeout time.Duration
	// MaxRetries bounds retries of transient failures.
	MaxRetries int
}

// Config is the resolved run-level configuration.
type Config struct {
	API API
	// OutputDir is the destination directory for artifacts.
	OutputDir string
	// COSBucketURL enables mirroring artifacts to COS when non-empty.
	COSBucketURL string
	// OTLPEndpoint enables trace export when non-empty.
	OTLPEndpoint string
	// Options are the explicit option overrides from the configuration
	// file. They are validated during the merge, not here.
	Options option.Set
}

// fileConfig mirrors the YAML configuration file layout.
type fileConfig struct {
	API struct {
		Timeout    int `yaml:"timeout"`
		MaxRetries int `yaml:"max_retries"`
	} `yaml:"api"`
	Output struct {
		Dir          string `yaml:"dir"`
		COSBucketURL string `yaml:"cos_bucket_url"`
	} `yaml:"output"`
	Options map[string]any `yaml:"options"`
}

// Load reads the optional YAML file at path (empty path skips it), applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{
		API:       API{MaxRetries: defaultMaxRetries},
		OutputDir: defaultOutputDir,
		Options:   option.Set{},
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrConfiguration, path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}
	if fc.API.Timeout > 0 {
		c.API.Timeout = time.Duration(fc.API.Timeout) * time.Second
	}
	if fc.API.MaxRetries > 0 {
		c.API.MaxRetries = fc.API.MaxRetries
	}
	if fc.Output.Dir != "" {
		c.OutputDir = fc.Output.Dir
	}
	if fc.Output.COSBucketURL != "" {
		c.COSBucketURL = fc.Output.COSBucketURL
	}
	for key, value := range fc.Options {
		c.Options[key] = value
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envToken); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv(envEndpoint); v != "" {
		c.API.Endpoint = v
	}
	if v := os.Getenv(envBucketURL); v != "" {
		c.COSBucketURL = v
	}
	if v := os.Getenv(envOTLP); v != "" {
		c.OTLPEndpoint = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer, got %q", ErrConfiguration, envTimeout, v)
		}
		c.API.Timeout = time.Duration(seconds) * time.Second
	}
	if v := os.Getenv(envMaxRetries); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil || retries < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrConfiguration, envMaxRetries, v)
		}
		c.API.MaxRetries = retries
	}
	return nil
}

func (c *Config) validate() error {
	if c.API.Token == "" {
		return fmt.Errorf("%w: access token is not set (export %s)", ErrConfiguration, envToken)
	}
	if c.API.Endpoint == "" {
		return fmt.Errorf("%w: service endpoint is not set (export %s)", ErrConfiguration, envEndpoint)
	}
	u, err := url.Parse(c.API.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrConfiguration, envEndpoint, c.API.Endpoint)
	}
	return nil
}
