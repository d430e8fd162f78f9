package templates

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDocx builds a minimal but valid DOCX file whose body holds the given
// text, so tests do not need binary fixtures checked in.
func writeDocx(t *testing.T, path, bodyText string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	parts := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + bodyText + `</w:t></w:r></w:p></w:body></w:document>`},
	}

	zw := zip.NewWriter(f)
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	assert.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letter.docx")
	writeDocx(t, path, "Dear {{Name}}, greetings from {{ Org }}. Regards, {{Name}}. Ref {{Case_42}}.")

	tpl, err := Open(path)
	require.NoError(t, err)
	defer tpl.Close()

	assert.Equal(t, []string{"Name", "Org", "Case_42"}, tpl.Placeholders(),
		"distinct names in order of first appearance")
}

func TestPlaceholdersRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letter.docx")
	writeDocx(t, path, "Hello {{Name}} of {{Org}}")

	// Preview opens once, generation opens again; results must match.
	for i := 0; i < 2; i++ {
		tpl, err := Open(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Name", "Org"}, tpl.Placeholders())
		tpl.Close()
	}
}

func TestPlaceholdersNone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "static.docx")
	writeDocx(t, path, "No variables here")

	tpl, err := Open(path)
	require.NoError(t, err)
	defer tpl.Close()

	assert.Empty(t, tpl.Placeholders())
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "letter.docx")
	writeDocx(t, path, "Dear {{Name}}, greetings from {{ Org }}.")

	outPath := filepath.Join(dir, "out.docx")
	err := Render(path, map[string]string{"Name": "Alice", "Org": "Acme"}, outPath)
	assert.NoError(t, err)

	rendered, err := Open(outPath)
	require.NoError(t, err)
	defer rendered.Close()

	content := rendered.file.Editable().GetContent()
	assert.Contains(t, content, "Alice")
	assert.Contains(t, content, "Acme")
	assert.NotContains(t, content, "{{")
}

func TestRenderUnevenSpacing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "letter.docx")
	writeDocx(t, path, "Dear {{  Name  }} of {{Org }}.")

	outPath := filepath.Join(dir, "out.docx")
	require.NoError(t, Render(path, map[string]string{"Name": "Alice", "Org": "Acme"}, outPath))

	rendered, err := Open(outPath)
	require.NoError(t, err)
	defer rendered.Close()

	// Any spelling Placeholders reports must also be substituted.
	content := rendered.file.Editable().GetContent()
	assert.Contains(t, content, "Alice")
	assert.Contains(t, content, "Acme")
	assert.NotContains(t, content, "{{")
}

func TestRenderLeavesSourceUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "letter.docx")
	writeDocx(t, path, "Hello {{Name}}")

	assert.NoError(t, Render(path, map[string]string{"Name": "Alice"}, filepath.Join(dir, "a.docx")))
	assert.NoError(t, Render(path, map[string]string{"Name": "Bob"}, filepath.Join(dir, "b.docx")))

	// The second render must not see the first row's substitution.
	second, err := Open(filepath.Join(dir, "b.docx"))
	require.NoError(t, err)
	defer second.Close()

	content := second.file.Editable().GetContent()
	assert.Contains(t, content, "Bob")
	assert.NotContains(t, content, "Alice")
}
