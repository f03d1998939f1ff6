//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// Package normalize turns raw service responses into normalized results:
// per-page content blocks in reading order, tables merged across page
// boundaries, and a single markdown rendering of the whole document.
package normalize

import (
	"errors"
	"fmt"

	"github.com/layoutparse/layoutparse/client"
	"github.com/layoutparse/layoutparse/option"
)

// ErrMalformedResponse is returned when the service response lacks the
// expected structure.
var ErrMalformedResponse = errors.New("normalize: malformed service response")

// Block types carried through from the service.
const (
	BlockText    = "text"
	BlockTable   = "table"
	BlockFormula = "formula"
	BlockChart   = "chart"
)

// Result is the normalized recognition output for one document.
type Result struct {
	// Markdown is the document rendered as a single markdown text.
	Markdown string `json:"markdown"`
	// Pages mirrors the per-page structured content after normalization.
	Pages []Page `json:"pages"`
}

// Page holds the normalized blocks of one page in reading order.
type Page struct {
	Index  int     `json:"index"`
	Blocks []Block `json:"blocks"`
}

// Block is one normalized content region.
type Block struct {
	Type string `json:"type"`
	// Text holds paragraph text, LaTeX source for formulas, or the chart
	// caption.
	Text string `json:"text,omitempty"`
	// Rows holds table cells after any cross-page merge.
	Rows [][]string `json:"rows,omitempty"`
	// Number is the sequential formula number, when numbering is enabled.
	Number int `json:"number,omitempty"`

	// continues marks a leading table fragment that continues the table
	// ending on the previous page. Consumed by mergeTables.
	continues bool
}

// Normalize validates the response, applies cross-page table merging and
// formula numbering per the effective options, and renders the markdown.
func Normalize(resp *client.Response, opts option.Set) (*Result, error) {
	pages, err := extractPages(resp)
	if err != nil {
		return nil, err
	}
	if opts.Bool(option.KeyMergeTables) {
		mergeTables(pages)
	}
	if opts.Bool(option.KeyNumberFormulas) {
		numberFormulas(pages)
	}
	markdown := renderMarkdown(pages)
	if opts.Bool(option.KeyPrettifyMarkdown) {
		markdown = prettify(markdown)
	}
	return &Result{Markdown: markdown, Pages: pages}, nil
}

// extractPages validates the envelope and converts wire pages into
// normalized pages, preserving document order.
func extractPages(resp *client.Response) ([]Page, error) {
	if resp == nil || resp.Result == nil {
		return nil, fmt.Errorf("%w: missing result", ErrMalformedResponse)
	}
	if resp.Result.LayoutParsingResults == nil {
		return nil, fmt.Errorf("%w: missing layoutParsingResults", ErrMalformedResponse)
	}
	pages := make([]Page, 0, len(resp.Result.LayoutParsingResults))
	for i, pr := range resp.Result.LayoutParsingResults {
		page := Page{Index: i}
		if len(pr.Blocks) == 0 {
			// Older service revisions ship only pre-rendered markdown.
			if pr.Markdown.Text != "" {
				page.Blocks = []Block{{Type: BlockText, Text: pr.Markdown.Text}}
			}
			pages = append(pages, page)
			continue
		}
		for _, raw := range pr.Blocks {
			block, err := convertBlock(i, raw)
			if err != nil {
				return nil, err
			}
			page.Blocks = append(page.Blocks, block)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func convertBlock(pageIndex int, raw client.Block) (Block, error) {
	switch raw.Type {
	case BlockText, BlockFormula, BlockChart:
		if raw.Content == "" {
			return Block{}, fmt.Errorf("%w: page %d has an empty %s block", ErrMalformedResponse, pageIndex, raw.Type)
		}
		return Block{Type: raw.Type, Text: raw.Content}, nil
	case BlockTable:
		if len(raw.Rows) == 0 {
			return Block{}, fmt.Errorf("%w: page %d has a table block without rows", ErrMalformedResponse, pageIndex)
		}
		rows := make([][]string, len(raw.Rows))
		for i, row := range raw.Rows {
			rows[i] = append([]string(nil), row...)
		}
		b := Block{Type: BlockTable, Rows: rows}
		if raw.ContinuesPrevious {
			b.continues = true
		}
		return b, nil
	default:
		// Unknown region types degrade to text so new service features do
		// not break older clients.
		return Block{Type: BlockText, Text: raw.Content}, nil
	}
}

// mergeTables concatenates a leading table fragment flagged as a
// continuation onto the trailing table of the previous page when both share
// the same column count. Rows keep their original page order. Chains spanning
// more than two pages collapse into the first fragment.
func mergeTables(pages []Page) {
	for i := 1; i < len(pages); i++ {
		page := &pages[i]
		if len(page.Blocks) == 0 {
			continue
		}
		lead := &page.Blocks[0]
		if lead.Type != BlockTable || !lead.continues {
			continue
		}
		target := trailingTable(pages[:i])
		if target == nil || columns(target.Rows) != columns(lead.Rows) {
			continue
		}
		target.Rows = append(target.Rows, lead.Rows...)
		page.Blocks = page.Blocks[1:]
	}
}

// trailingTable finds the last block of the nearest preceding non-empty
// page, returning it only if it is a table.
func trailingTable(pages []Page) *Block {
	for i := len(pages) - 1; i >= 0; i-- {
		blocks := pages[i].Blocks
		if len(blocks) == 0 {
			continue
		}
		last := &blocks[len(blocks)-1]
		if last.Type == BlockTable {
			return last
		}
		return nil
	}
	return nil
}

func columns(rows [][]string) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}

// numberFormulas assigns sequential numbers to formula blocks in document
// order.
func numberFormulas(pages []Page) {
	n := 0
	for i := range pages {
		for j := range pages[i].Blocks {
			if pages[i].Blocks[j].Type == BlockFormula {
				n++
				pages[i].Blocks[j].Number = n
			}
		}
	}
}
