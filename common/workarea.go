package common

import (
	"os"
	"path/filepath"
)

// WorkArea is the scratch directory owned by exactly one request. Uploads
// are saved under Root, rendered documents under OutputDir, converted PDFs
// under PDFDir. Callers defer Cleanup so the whole tree disappears on every
// exit path.
type WorkArea struct {
	Root      string
	OutputDir string
	PDFDir    string
}

// NewWorkArea allocates a fresh request-scoped scratch directory under the
// configured scratch root.
func NewWorkArea(scratchRoot string) (*WorkArea, error) {
	root, err := os.MkdirTemp(scratchRoot, "mailmerge_")
	if err != nil {
		return nil, err
	}

	wa := &WorkArea{
		Root:      root,
		OutputDir: filepath.Join(root, "output_docs"),
	}
	wa.PDFDir = filepath.Join(wa.OutputDir, "pdf_files")

	if err := os.MkdirAll(wa.PDFDir, 0o755); err != nil {
		os.RemoveAll(root)
		return nil, err
	}
	return wa, nil
}

// Cleanup removes the work area and everything in it.
func (w *WorkArea) Cleanup() {
	os.RemoveAll(w.Root)
}
