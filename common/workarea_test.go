package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkArea(t *testing.T) {
	scratch := t.TempDir()

	wa, err := NewWorkArea(scratch)
	assert.NoError(t, err)

	assert.DirExists(t, wa.Root)
	assert.DirExists(t, wa.OutputDir)
	assert.DirExists(t, wa.PDFDir)
	assert.Equal(t, filepath.Join(wa.Root, "output_docs"), wa.OutputDir)
	assert.Equal(t, filepath.Join(wa.OutputDir, "pdf_files"), wa.PDFDir)
}

func TestWorkAreaIsolation(t *testing.T) {
	scratch := t.TempDir()

	first, err := NewWorkArea(scratch)
	assert.NoError(t, err)
	second, err := NewWorkArea(scratch)
	assert.NoError(t, err)

	assert.NotEqual(t, first.Root, second.Root, "each request owns its own directory")
}

func TestWorkAreaCleanup(t *testing.T) {
	scratch := t.TempDir()

	wa, err := NewWorkArea(scratch)
	assert.NoError(t, err)

	// Leave some state behind, as a request would
	assert.NoError(t, os.WriteFile(filepath.Join(wa.OutputDir, "a.docx"), []byte("x"), 0o644))

	wa.Cleanup()
	assert.NoDirExists(t, wa.Root)

	entries, err := os.ReadDir(scratch)
	assert.NoError(t, err)
	assert.Empty(t, entries, "scratch root must be empty after cleanup")
}
