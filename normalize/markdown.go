//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// renderMarkdown concatenates normalized blocks into one markdown text in
// document reading order.
func renderMarkdown(pages []Page) string {
	var b strings.Builder
	for _, page := range pages {
		for _, block := range page.Blocks {
			switch block.Type {
			case BlockTable:
				writeTable(&b, block.Rows)
			case BlockFormula:
				writeFormula(&b, block)
			case BlockChart:
				fmt.Fprintf(&b, "> Chart: %s\n\n", strings.TrimSpace(block.Text))
			default:
				b.WriteString(strings.TrimSpace(block.Text))
				b.WriteString("\n\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// writeTable renders rows as a GFM table, treating the first row as header.
func writeTable(b *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	writeRow(b, rows[0])
	b.WriteString("|")
	for range rows[0] {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(b, row)
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, row []string) {
	b.WriteString("|")
	for _, cell := range row {
		b.WriteString(" ")
		b.WriteString(escapeCell(cell))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// escapeCell keeps cell content on one table row.
func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\n", " ")
	return strings.ReplaceAll(cell, "|", `\|`)
}

func writeFormula(b *strings.Builder, block Block) {
	latex := strings.TrimSpace(block.Text)
	if block.Number > 0 {
		latex = fmt.Sprintf(`%s \tag{%d}`, latex, block.Number)
	}
	fmt.Fprintf(b, "$$\n%s\n$$\n\n", latex)
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// prettify normalizes recognition artifacts in the rendered markdown:
// fullwidth ASCII forms are folded to their halfwidth equivalents (a common
// OCR artifact in CJK documents), trailing spaces are dropped, and runs of
// blank lines collapse to one.
func prettify(markdown string) string {
	folded := width.Fold.String(markdown)
	lines := strings.Split(folded, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}
