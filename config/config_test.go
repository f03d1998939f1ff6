//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layoutparse/layoutparse/option"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv(envToken, "test-token")
	t.Setenv(envEndpoint, "https://service.example.com/layout-parsing")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "test-token", cfg.API.Token)
	assert.Equal(t, "https://service.example.com/layout-parsing", cfg.API.Endpoint)
	assert.Equal(t, defaultMaxRetries, cfg.API.MaxRetries)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, defaultOutputDir, cfg.OutputDir)
	assert.Empty(t, cfg.Options)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv(envToken, "")
	t.Setenv(envEndpoint, "https://service.example.com")

	_, err := Load("")
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), envToken)
}

func TestLoadMissingEndpoint(t *testing.T) {
	t.Setenv(envToken, "test-token")
	t.Setenv(envEndpoint, "")

	_, err := Load("")
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), envEndpoint)
}

func TestLoadRejectsBadEndpoint(t *testing.T) {
	t.Setenv(envToken, "test-token")
	t.Setenv(envEndpoint, "ftp://service.example.com")

	_, err := Load("")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestLoadFile(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
api:
  timeout: 120
  max_retries: 5
output:
  dir: artifacts
options:
  layout_threshold: 0.6
  use_chart_recognition: true
  output_format: both
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.API.MaxRetries)
	assert.Equal(t, "artifacts", cfg.OutputDir)
	assert.Equal(t, 0.6, cfg.Options[option.KeyLayoutThreshold])
	assert.Equal(t, true, cfg.Options[option.KeyChartRecognition])

	// File options merge cleanly into the effective option set.
	merged, err := option.Merge(nil, cfg.Options)
	require.NoError(t, err)
	assert.Equal(t, option.OutputBoth, merged.Format())
}

func TestEnvOverridesFile(t *testing.T) {
	setCredentials(t)
	t.Setenv(envTimeout, "30")
	t.Setenv(envMaxRetries, "1")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeout: 600\n  max_retries: 9\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 1, cfg.API.MaxRetries)
}

func TestLoadRejectsBadTimeoutEnv(t *testing.T) {
	setCredentials(t)
	t.Setenv(envTimeout, "soon")

	_, err := Load("")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestLoadMissingFile(t *testing.T) {
	setCredentials(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, ErrConfiguration)
}
