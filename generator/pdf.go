package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// PDFConverter converts one rendered DOCX into a PDF in outDir.
type PDFConverter interface {
	Convert(ctx context.Context, docxPath, outDir string) ConvertResult
}

// ConvertResult makes the best-effort contract explicit: a conversion either
// produced a PDF or was skipped with a reason. It is never an error that
// propagates; the row keeps its DOCX either way.
type ConvertResult struct {
	Path   string
	Reason string
}

// Converted reports a successful conversion.
func Converted(path string) ConvertResult { return ConvertResult{Path: path} }

// Skipped reports a conversion that produced nothing.
func Skipped(reason string) ConvertResult { return ConvertResult{Reason: reason} }

// OK reports whether a PDF was produced.
func (r ConvertResult) OK() bool { return r.Reason == "" }

const defaultSofficeTimeout = 30 * time.Second

// LibreOffice converts documents by shelling out to a headless soffice
// process. Conversion is the step most likely to hang, so every call runs
// under its own deadline.
type LibreOffice struct {
	Binary  string
	Timeout time.Duration
}

// NewLibreOffice returns a converter for the given binary. Empty arguments
// fall back to "soffice" and a 30 second timeout.
func NewLibreOffice(binary string, timeout time.Duration) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = defaultSofficeTimeout
	}
	return &LibreOffice{Binary: binary, Timeout: timeout}
}

// Convert implements PDFConverter.
func (lo *LibreOffice) Convert(ctx context.Context, docxPath, outDir string) ConvertResult {
	if _, err := exec.LookPath(lo.Binary); err != nil {
		return Skipped(fmt.Sprintf("converter %q not installed", lo.Binary))
	}

	ctx, cancel := context.WithTimeout(ctx, lo.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, lo.Binary,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		docxPath,
	)
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return Skipped("conversion timed out")
	}
	if err != nil {
		return Skipped(fmt.Sprintf("%v: %s", err, bytes.TrimSpace(output)))
	}

	pdfPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return Skipped("no PDF produced")
	}
	return Converted(pdfPath)
}
