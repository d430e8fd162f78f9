// Package templates wraps the DOCX engine behind the two capabilities the
// merge needs: discover which placeholders a template references, and render
// a copy of it with a resolved context. Any engine offering those two
// operations could be swapped in without touching the orchestration.
package templates

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/nguyenthenguyen/docx"
)

// placeholderPattern matches {{Name}} slots, with or without inner spacing.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([\p{L}\p{N}_]+)\s*\}\}`)

// Template is an opened DOCX template. Open it once per use; rendering
// always works on an independent load of the source file.
type Template struct {
	path string
	file *docx.ReplaceDocx
}

// Open reads the template file at path. The returned Template must be
// closed. Calling Open repeatedly on the same file yields identical results.
func Open(path string) (*Template, error) {
	file, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", filepath.Base(path), err)
	}
	return &Template{path: path, file: file}, nil
}

// Close releases the underlying file handle.
func (t *Template) Close() error {
	return t.file.Close()
}

// Placeholders returns the distinct placeholder names referenced by the
// document body, in order of first appearance.
func (t *Template) Placeholders() []string {
	content := t.file.Editable().GetContent()

	seen := make(map[string]bool)
	var names []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// spellings are the placeholder forms template authors actually type.
// Header and footer parts cannot be scanned, so these cover them.
var spellings = []string{"{{%s}}", "{{ %s }}", "{{%s }}", "{{ %s}}"}

// Render loads a fresh copy of the template at path, substitutes every
// context entry into the body, headers and footers, and writes the result
// to outPath. Working on an independent load keeps state from leaking
// between rows.
func Render(path string, context map[string]string, outPath string) error {
	file, err := docx.ReadDocxFile(path)
	if err != nil {
		return fmt.Errorf("read template %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	doc := file.Editable()

	// Body substitution is driven by the same pattern extraction uses, so
	// every spelling Placeholders reports also gets replaced.
	seen := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(doc.GetContent(), -1) {
		literal, name := match[0], match[1]
		if seen[literal] {
			continue
		}
		seen[literal] = true
		value, ok := context[name]
		if !ok {
			continue
		}
		if err := doc.Replace(literal, value, -1); err != nil {
			return fmt.Errorf("substitute %s: %w", name, err)
		}
	}

	for name, value := range context {
		for _, spelling := range spellings {
			placeholder := fmt.Sprintf(spelling, name)
			if err := doc.ReplaceHeader(placeholder, value); err != nil {
				return fmt.Errorf("substitute %s in header: %w", name, err)
			}
			if err := doc.ReplaceFooter(placeholder, value); err != nil {
				return fmt.Errorf("substitute %s in footer: %w", name, err)
			}
		}
	}

	if err := doc.WriteToFile(outPath); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
