//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// Package document models the local input files submitted for recognition:
// format inference from the file extension, readability validation, and the
// base64 payload encoding the service expects.
package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Sentinel errors for input validation.
var (
	// ErrUnsupportedFormat is returned for files outside the supported
	// format set.
	ErrUnsupportedFormat = errors.New("document: unsupported format")

	// ErrFileRead is returned when the file is missing, unreadable or empty.
	ErrFileRead = errors.New("document: file read failed")
)

// Format is the inferred document format.
type Format int

// Supported formats. The service distinguishes only PDF and raster images.
const (
	FormatPDF Format = iota
	FormatImage
)

// imageExtensions lists the raster formats the service accepts.
var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// SupportedExtensions returns the accepted file extensions, PDF first.
func SupportedExtensions() []string {
	exts := []string{".pdf"}
	for ext := range imageExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// Supported reports whether the path carries a recognized extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return true
	}
	_, ok := imageExtensions[ext]
	return ok
}

// Document is a validated input file.
type Document struct {
	// Path is the location of the file on disk.
	Path string
	// Format is inferred from the file extension.
	Format Format
}

// Resolve validates the path and infers the document format. The file must
// exist and carry a supported extension; content is not read until Encode.
func Resolve(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format := FormatImage
	if ext == ".pdf" {
		format = FormatPDF
	} else if _, ok := imageExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: %q (supported: pdf, png, jpg, jpeg, bmp, tif, tiff)", ErrUnsupportedFormat, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileRead, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileRead, path)
	}
	return &Document{Path: path, Format: format}, nil
}

// Base returns the file name without directory or extension, used to name
// output artifacts.
func (d *Document) Base() string {
	return strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path))
}

// FileType returns the wire discriminator: 0 for PDF, 1 for images.
func (d *Document) FileType() int {
	if d.Format == FormatPDF {
		return 0
	}
	return 1
}

// Encode reads the file and returns its base64 transport encoding together
// with the raw size in bytes.
func (d *Document) Encode() (string, int64, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s: %v", ErrFileRead, d.Path, err)
	}
	if len(data) == 0 {
		return "", 0, fmt.Errorf("%w: %s is empty", ErrFileRead, d.Path)
	}
	return base64.StdEncoding.EncodeToString(data), int64(len(data)), nil
}

// PageCount returns the number of pages for PDF documents, used to scale the
// request timeout. Images and unparsable PDFs count as one page.
func (d *Document) PageCount() int {
	if d.Format != FormatPDF {
		return 1
	}
	file, reader, err := pdf.Open(d.Path)
	if err != nil {
		return 1
	}
	defer file.Close()
	pages := reader.NumPage()
	if pages < 1 {
		return 1
	}
	return pages
}
