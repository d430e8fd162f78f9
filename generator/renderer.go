// Package generator turns a template plus a recipient dataset into one
// document per row, converts each to PDF on a best-effort basis, and packs
// the output tree into a downloadable archive.
package generator

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/eersee/mail-generator/common"
	"github.com/eersee/mail-generator/parsers"
	"github.com/eersee/mail-generator/templates"
)

// Output naming is keyed by two fixed row fields. They match the column
// headers the recipient CSVs are exported with and are not configurable
// per request.
const (
	emailColumn = "Email"
	orgColumn   = "Организация"
)

// maxReportedErrors caps how many row errors a batch-level failure cites.
const maxReportedErrors = 3

// Result aggregates one generation run: how many rows produced a document
// and which rows failed. A row failure never aborts the batch.
type Result struct {
	SuccessCount int
	Errors       []common.RowError
}

// Generate renders one document per dataset row, strictly in source order.
// DOCX files land in the work area's output directory, PDFs (when the
// converter succeeds) under its pdf_files subdirectory. The returned error
// is non-nil only when not a single row succeeded; the partial Result is
// still returned alongside it so callers can record what happened.
func Generate(ctx context.Context, tplPath string, ds *parsers.Dataset, mapping map[string]string, wa *common.WorkArea, conv PDFConverter) (*Result, error) {
	tpl, err := templates.Open(tplPath)
	if err != nil {
		return nil, err
	}
	placeholders := tpl.Placeholders()
	tpl.Close()

	result := fold(ds.Records, func(row parsers.Record, idx int) error {
		return renderRow(ctx, tplPath, placeholders, mapping, row, idx, wa, conv)
	})

	if result.SuccessCount == 0 {
		return result, fmt.Errorf("no documents could be generated: %s",
			common.FormatRowErrors(result.Errors, maxReportedErrors))
	}
	return result, nil
}

// fold runs the per-row loop, collecting failures without aborting. Kept
// separate from file I/O so the try/continue semantics are testable on
// their own.
func fold(records []parsers.Record, render func(parsers.Record, int) error) *Result {
	result := &Result{}
	for idx, row := range records {
		if err := render(row, idx); err != nil {
			result.Errors = append(result.Errors, common.RowError{Row: idx + 1, Message: err.Error()})
			continue
		}
		result.SuccessCount++
	}
	return result
}

func renderRow(ctx context.Context, tplPath string, placeholders []string, mapping map[string]string, row parsers.Record, idx int, wa *common.WorkArea, conv PDFConverter) error {
	renderCtx := BuildContext(placeholders, mapping, row)
	base := OutputName(row, idx)

	docxPath := filepath.Join(wa.OutputDir, base+".docx")
	if err := templates.Render(tplPath, renderCtx, docxPath); err != nil {
		return err
	}

	if res := conv.Convert(ctx, docxPath, wa.PDFDir); !res.OK() {
		log.Printf("PDF conversion skipped for %s: %s", base, res.Reason)
	}
	return nil
}

// BuildContext resolves every template placeholder against one row. The
// field mapping redirects a placeholder to a differently named CSV column;
// absent entries default to the placeholder name itself. A placeholder with
// no matching column renders as a visible [name] marker instead of failing
// the row.
func BuildContext(placeholders []string, mapping map[string]string, row parsers.Record) map[string]string {
	renderCtx := make(map[string]string, len(placeholders))
	for _, name := range placeholders {
		column := name
		if mapped, ok := mapping[name]; ok {
			column = mapped
		}
		if value, ok := row[column]; ok {
			renderCtx[name] = value
		} else {
			renderCtx[name] = "[" + name + "]"
		}
	}
	return renderCtx
}

// OutputName derives the document base name from the designated row fields,
// sanitized for the filesystem. A missing email field falls back to
// row_<idx>, a missing or empty organization to doc_<idx>.
func OutputName(row parsers.Record, idx int) string {
	email, ok := row[emailColumn]
	if !ok {
		email = fmt.Sprintf("row_%d", idx)
	}

	safeEmail := common.SanitizeFilename(email)
	safeOrg := common.SanitizeFilename(row[orgColumn])
	if safeOrg == "" {
		safeOrg = fmt.Sprintf("doc_%d", idx)
	}
	return safeEmail + "_" + safeOrg
}
