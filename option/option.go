//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// Package option defines the recognition option vocabulary, the built-in
// mode overlays, and the merge rules that produce the effective option set
// sent with every service request.
package option

import (
	"fmt"
	"sort"
	"strings"
)

// Option keys recognized by the layout-parsing service. The vocabulary is
// closed: merging a set containing any other key fails.
const (
	KeyOrientationClassify = "use_doc_orientation_classify"
	KeyUnwarping           = "use_doc_unwarping"
	KeyLayoutDetection     = "use_layout_detection"
	KeyLayoutThreshold     = "layout_threshold"
	KeyChartRecognition    = "use_chart_recognition"
	KeyMergeTables         = "merge_tables"
	KeyPrettifyMarkdown    = "prettify_markdown"
	KeyNumberFormulas      = "number_formulas"
	KeyOutputFormat        = "output_format"
)

// OutputFormat selects which artifacts OutputWriter materializes.
type OutputFormat string

// Supported output formats.
const (
	OutputMarkdown OutputFormat = "markdown"
	OutputJSON     OutputFormat = "json"
	OutputBoth     OutputFormat = "both"
)

type kind int

const (
	kindBool kind = iota
	kindFloat
	kindFormat
)

// spec declares the type, default value and wire behavior of one option key.
type spec struct {
	kind kind
	def  any
	// local marks options consumed by the client itself and never forwarded
	// to the service.
	local bool
}

var vocabulary = map[string]spec{
	KeyOrientationClassify: {kind: kindBool, def: false},
	KeyUnwarping:           {kind: kindBool, def: false},
	KeyLayoutDetection:     {kind: kindBool, def: true},
	KeyLayoutThreshold:     {kind: kindFloat, def: 0.5},
	KeyChartRecognition:    {kind: kindBool, def: false},
	KeyMergeTables:         {kind: kindBool, def: true, local: true},
	KeyPrettifyMarkdown:    {kind: kindBool, def: true, local: true},
	KeyNumberFormulas:      {kind: kindBool, def: false, local: true},
	KeyOutputFormat:        {kind: kindFormat, def: OutputMarkdown, local: true},
}

// Set is a validated mapping from option key to value. A Set produced by
// Merge is complete: every vocabulary key is present with a well-typed value.
type Set map[string]any

// Defaults returns a fresh Set holding the declared default for every key.
func Defaults() Set {
	s := make(Set, len(vocabulary))
	for key, sp := range vocabulary {
		s[key] = sp.def
	}
	return s
}

// Merge combines defaults, a mode overlay and explicit overrides into one
// effective Set, with precedence defaults < overlay < overrides. Every
// resulting key is validated against the vocabulary; the first offending key
// (in sorted order, for determinism) is reported via ErrInvalidOption.
// Merge is pure: identical inputs always yield identical output.
func Merge(overlay, overrides Set) (Set, error) {
	merged := Defaults()
	for _, layer := range []Set{overlay, overrides} {
		keys := make([]string, 0, len(layer))
		for key := range layer {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			value, err := normalize(key, layer[key])
			if err != nil {
				return nil, err
			}
			merged[key] = value
		}
	}
	return merged, nil
}

// normalize validates one key/value pair and coerces the value to the
// canonical Go type for its declared kind.
func normalize(key string, value any) (any, error) {
	sp, ok := vocabulary[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidOption, key)
	}
	switch sp.kind {
	case kindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: key %q expects a boolean, got %T", ErrInvalidOption, key, value)
		}
		return b, nil
	case kindFloat:
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("%w: key %q expects a number, got %T", ErrInvalidOption, key, value)
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("%w: key %q must be within [0, 1], got %v", ErrInvalidOption, key, f)
		}
		return f, nil
	case kindFormat:
		var raw string
		switch v := value.(type) {
		case OutputFormat:
			raw = string(v)
		case string:
			raw = v
		default:
			return nil, fmt.Errorf("%w: key %q expects a string, got %T", ErrInvalidOption, key, value)
		}
		format := OutputFormat(raw)
		switch format {
		case OutputMarkdown, OutputJSON, OutputBoth:
			return format, nil
		}
		return nil, fmt.Errorf("%w: key %q must be one of markdown, json, both; got %q", ErrInvalidOption, key, raw)
	}
	return nil, fmt.Errorf("%w: key %q has no declared kind", ErrInvalidOption, key)
}

// toFloat accepts the numeric types a YAML or JSON decoder may produce.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Bool returns the boolean value stored under key, or false when absent.
func (s Set) Bool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

// Float returns the numeric value stored under key, or 0 when absent.
func (s Set) Float(key string) float64 {
	f, _ := s[key].(float64)
	return f
}

// Format returns the requested output format, defaulting to markdown.
func (s Set) Format() OutputFormat {
	if f, ok := s[KeyOutputFormat].(OutputFormat); ok {
		return f
	}
	return OutputMarkdown
}

// Clone returns a shallow copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for key, value := range s {
		out[key] = value
	}
	return out
}

// WirePayload converts the set into the camelCase form carried on the wire,
// omitting options the client consumes locally.
func (s Set) WirePayload() map[string]any {
	payload := make(map[string]any, len(s))
	for key, value := range s {
		sp, ok := vocabulary[key]
		if !ok || sp.local {
			continue
		}
		payload[toCamelCase(key)] = value
	}
	return payload
}

// toCamelCase converts a snake_case option key to its camelCase wire name.
func toCamelCase(key string) string {
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
