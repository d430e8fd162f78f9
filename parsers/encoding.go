package parsers

import (
	"encoding/csv"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding is one candidate text encoding for an uploaded CSV file.
type Encoding struct {
	Name string
	// transformer yields a fresh decode transformer; transformers carry
	// state and must not be shared between reads.
	transformer func() transform.Transformer
}

// NewReader wraps r so that it yields UTF-8 text decoded from this encoding.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, e.transformer())
}

// encodings is the fixed detection order: strict UTF-8 (BOM tolerated)
// first, then the single-byte encodings office spreadsheet exports produce.
// ISO 8859-1 accepts every byte sequence, so it doubles as the terminal
// catch-all for non-UTF-8 input.
var encodings = []Encoding{
	{"utf-8", func() transform.Transformer {
		return transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder())
	}},
	{"iso-8859-1", func() transform.Transformer {
		return charmap.ISO8859_1.NewDecoder()
	}},
	{"windows-1252", func() transform.Transformer {
		return charmap.Windows1252.NewDecoder()
	}},
}

// DetectEncoding tries each candidate encoding by parsing just the header
// row and returns the first one that decodes cleanly. When none succeeds it
// falls back to the first candidate and lets the full parse surface the
// error.
func DetectEncoding(path string) Encoding {
	for _, enc := range encodings {
		if headerParses(path, enc) {
			return enc
		}
	}
	return encodings[0]
}

func headerParses(path string, enc Encoding) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	cr := csv.NewReader(enc.NewReader(f))
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1

	_, err = cr.Read()
	return err == nil
}
