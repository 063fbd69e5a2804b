package report

import (
	"encoding/json"
	"io"

	"github.com/JonMunkholm/tsvcheck/internal/check"
)

// JSONWriter writes records and summaries as JSON lines.
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter returns a JSONWriter writing to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONWriter{enc: enc}
}

// WriteFailure writes f as one line.
func (j *JSONWriter) WriteFailure(file string, f check.Failure) error {
	rec := NewRecord(f)
	rec.File = file
	return j.enc.Encode(rec)
}

// WriteSummary writes s as one line.
func (j *JSONWriter) WriteSummary(s Summary) error {
	return j.enc.Encode(s)
}
