//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

package document

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPDF programmatically generates a small PDF with the requested page
// count. Generating ensures the file is well-formed and parsable by
// ledongthuc/pdf, avoiding brittle handcrafted bytes.
func newTestPDF(t *testing.T, pages int) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, "Hello World")
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestResolvePDF(t *testing.T) {
	path := writeFile(t, "sample.pdf", newTestPDF(t, 1))

	doc, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, doc.Format)
	assert.Equal(t, 0, doc.FileType())
	assert.Equal(t, "sample", doc.Base())
}

func TestResolveImage(t *testing.T) {
	for _, name := range []string{"scan.png", "scan.JPG", "scan.jpeg", "scan.bmp", "scan.tif", "scan.tiff"} {
		path := writeFile(t, name, []byte{0x89, 0x50})
		doc, err := Resolve(path)
		require.NoError(t, err, name)
		assert.Equal(t, FormatImage, doc.Format, name)
		assert.Equal(t, 1, doc.FileType(), name)
	}
}

func TestResolveUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "notes.docx", []byte("zip"))

	_, err := Resolve(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "absent.pdf"))
	require.ErrorIs(t, err, ErrFileRead)
}

func TestResolveDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested.pdf")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := Resolve(dir)
	require.ErrorIs(t, err, ErrFileRead)
}

func TestEncode(t *testing.T) {
	raw := newTestPDF(t, 1)
	path := writeFile(t, "sample.pdf", raw)

	doc, err := Resolve(path)
	require.NoError(t, err)

	encoded, size, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, int64(len(raw)), size)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestEncodeEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.png", nil)

	doc, err := Resolve(path)
	require.NoError(t, err)

	_, _, err = doc.Encode()
	require.ErrorIs(t, err, ErrFileRead)
}

func TestPageCount(t *testing.T) {
	path := writeFile(t, "three.pdf", newTestPDF(t, 3))

	doc, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())
}

func TestPageCountImage(t *testing.T) {
	path := writeFile(t, "scan.png", []byte{0x89, 0x50})

	doc, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())
}

func TestPageCountCorruptPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("not a pdf"))

	doc, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a/b/c.pdf"))
	assert.True(t, Supported("scan.TIFF"))
	assert.False(t, Supported("report.docx"))
	assert.False(t, Supported("noext"))
}
