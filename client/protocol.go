//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package client

// Response is the JSON envelope returned by the layout-parsing service.
// A zero ErrorCode with a populated Result marks success.
type Response struct {
	LogID     string  `json:"logId"`
	ErrorCode int     `json:"errorCode"`
	ErrorMsg  string  `json:"errorMsg"`
	Result    *Result `json:"result"`
}

// Result carries the per-page recognition output.
type Result struct {
	LayoutParsingResults []PageResult `json:"layoutParsingResults"`
}

// PageResult is the recognition output for a single page, in reading order
// established by the service's layout analysis.
type PageResult struct {
	Markdown MarkdownResult `json:"markdown"`
	Blocks   []Block        `json:"blocks"`
}

// MarkdownResult is the service-rendered markdown for one page. It is used
// as a fallback when the page carries no structured blocks.
type MarkdownResult struct {
	Text string `json:"text"`
}

// Block is one content region detected on a page.
type Block struct {
	// Type is one of "text", "table", "formula" or "chart".
	Type string `json:"type"`
	// Content holds the textual payload: paragraph text, LaTeX source for
	// formulas, or a caption for charts.
	Content string `json:"content,omitempty"`
	// Rows holds table cells, outer slice per row.
	Rows [][]string `json:"rows,omitempty"`
	// BBox is the region position on the page: [x1, y1, x2, y2].
	BBox []float64 `json:"bbox,omitempty"`
	// ContinuesPrevious flags a leading table fragment that continues a
	// table ending on the previous page.
	ContinuesPrevious bool `json:"continuesPrevious,omitempty"`
}
