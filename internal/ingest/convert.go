// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Converter transforms a PDF file into plain text. The production backend
// shells out to pdftotext; tests substitute a fake.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns its text content.
	Convert(ctx context.Context, pdfPath string) (string, error)
}

// PdftotextConverter converts PDFs by running the poppler pdftotext binary
// with stdout output.
type PdftotextConverter struct {
	// Bin is the pdftotext executable. Empty means "pdftotext" on PATH.
	Bin string
}

// Convert runs pdftotext over the PDF at pdfPath and returns the extracted
// text. An empty extraction is treated as an error so the caller can fall
// back to abstract-only ingestion.
func (p PdftotextConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	bin := p.Bin
	if bin == "" {
		bin = "pdftotext"
	}

	var out, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-enc", "UTF-8", "-nopgbrk", pdfPath, "-")
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s on %s: %w (%s)", bin, pdfPath, err, bytes.TrimSpace(errBuf.Bytes()))
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%s produced empty output for %s", bin, pdfPath)
	}
	return out.String(), nil
}
