//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package option

import "fmt"

// Mode is a named preset balancing speed against recognition accuracy.
type Mode string

// Built-in modes.
const (
	// ModeFast disables the optional enrichers to minimize latency.
	ModeFast Mode = "fast"
	// ModeStandard uses the declared defaults unchanged.
	ModeStandard Mode = "standard"
	// ModeFine enables every enricher and tightens layout detection.
	ModeFine Mode = "fine"
)

var overlays = map[Mode]Set{
	ModeFast: {
		KeyOrientationClassify: false,
		KeyUnwarping:           false,
		KeyChartRecognition:    false,
		KeyMergeTables:         false,
		KeyNumberFormulas:      false,
		KeyPrettifyMarkdown:    false,
	},
	ModeStandard: {},
	ModeFine: {
		KeyOrientationClassify: true,
		KeyUnwarping:           true,
		KeyChartRecognition:    true,
		KeyMergeTables:         true,
		KeyNumberFormulas:      true,
		KeyLayoutThreshold:     0.7,
	},
}

// ParseMode validates a mode identifier.
func ParseMode(raw string) (Mode, error) {
	mode := Mode(raw)
	if _, ok := overlays[mode]; !ok {
		return "", fmt.Errorf("%w: %q (valid modes: fast, standard, fine)", ErrUnknownMode, raw)
	}
	return mode, nil
}

// Overlay returns a copy of the partial option set the mode applies on top
// of the defaults. The returned Set is safe to mutate.
func Overlay(mode Mode) (Set, error) {
	overlay, ok := overlays[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid modes: fast, standard, fine)", ErrUnknownMode, string(mode))
	}
	return overlay.Clone(), nil
}
