//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package normalize

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// QualityReport captures structural metrics of a rendered markdown document.
type QualityReport struct {
	Chars      int `json:"chars"`
	Paragraphs int `json:"paragraphs"`
	Headings   int `json:"headings"`
	Tables     int `json:"tables"`
	Formulas   int `json:"formulas"`
}

// Empty reports whether the document carries no usable content.
func (q QualityReport) Empty() bool {
	return q.Chars == 0 || (q.Paragraphs == 0 && q.Headings == 0 && q.Tables == 0)
}

var qualityParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Quality parses the markdown with a GFM parser and counts its structural
// elements. The counts feed per-file logging and sanity checks.
func Quality(markdown string) QualityReport {
	report := QualityReport{
		Chars:    len(strings.TrimSpace(markdown)),
		Formulas: strings.Count(markdown, "$$") / 2,
	}
	source := []byte(markdown)
	root := qualityParser.Parser().Parse(text.NewReader(source))
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			report.Headings++
		case ast.KindParagraph:
			report.Paragraphs++
		case east.KindTable:
			report.Tables++
		}
		return ast.WalkContinue, nil
	})
	return report
}
