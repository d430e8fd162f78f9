package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Delimiter is fixed: the merge CSVs come out of spreadsheet exports that
// use semicolons.
const Delimiter = ';'

// Record represents a single CSV row as a map of column name to value.
type Record map[string]string

// Dataset is a fully parsed CSV file: the header plus every row in source
// order. Column names are stable across all records.
type Dataset struct {
	Columns []string
	Records []Record
}

// LoadCSV parses the file at path into a Dataset, decoding it with the
// detected encoding. Rows shorter than the header are padded with empty
// strings; a structurally malformed file fails the whole load.
func LoadCSV(path string) (*Dataset, error) {
	enc := DetectEncoding(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(enc.NewReader(f))
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header (%s): %w", enc.Name, err)
	}

	columns := make([]string, len(header))
	copy(columns, header)

	ds := &Dataset{Columns: columns}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse CSV row %d (%s): %w", len(ds.Records)+2, enc.Name, err)
		}

		record := make(Record, len(columns))
		for i, column := range columns {
			if i < len(row) {
				record[column] = row[i]
			} else {
				record[column] = ""
			}
		}
		ds.Records = append(ds.Records, record)
	}

	return ds, nil
}

// Preview returns up to n rows as raw cell slices in column order, plus the
// total row count, without touching any downstream machinery.
func (d *Dataset) Preview(n int) ([][]string, int) {
	if n > len(d.Records) {
		n = len(d.Records)
	}
	preview := make([][]string, 0, n)
	for _, record := range d.Records[:n] {
		cells := make([]string, len(d.Columns))
		for i, column := range d.Columns {
			cells[i] = record[column]
		}
		preview = append(preview, cells)
	}
	return preview, len(d.Records)
}
