// Package report renders check failures for people and for machines.
//
// Printer writes the plaintext form of each failure, styled with lipgloss
// when the output is a terminal. JSONWriter writes one JSON object per line
// so results can be piped into other tools or streamed over HTTP.
package report

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/JonMunkholm/tsvcheck/internal/check"
)

// Record kinds.
const (
	KindFile    = "file"
	KindCell    = "cell"
	KindSummary = "summary"
)

// Record is the serializable form of a check.Failure.
//
// Row and Column are 0-based and only set for cell failures. Contents holds
// the cell text when it is valid UTF-8; otherwise ContentsHex holds the raw
// bytes hex encoded.
type Record struct {
	Kind        string   `json:"kind"`
	File        string   `json:"file,omitempty"`
	Location    string   `json:"location,omitempty"`
	Row         *uint64  `json:"row,omitempty"`
	Column      *uint    `json:"column,omitempty"`
	Reasons     []string `json:"reasons"`
	Contents    *string  `json:"contents,omitempty"`
	ContentsHex string   `json:"contents_hex,omitempty"`
	Message     string   `json:"message"`
}

// NewRecord flattens f into a Record.
func NewRecord(f check.Failure) Record {
	switch f := f.(type) {
	case *check.FileFailure:
		return Record{
			Kind:    KindFile,
			Reasons: []string{f.Reason()},
			Message: f.PlaintextMessage(),
		}
	case *check.CellFailure:
		loc := f.Location()
		subs := f.SubFailures()
		reasons := make([]string, len(subs))
		for i, sf := range subs {
			reasons[i] = sf.Reason
		}

		rec := Record{
			Kind:     KindCell,
			Location: loc.String(),
			Row:      &loc.Row,
			Column:   &loc.Col,
			Reasons:  reasons,
			Message:  f.PlaintextMessage(),
		}
		contents := f.Contents()
		if utf8.Valid(contents) {
			s := string(contents)
			rec.Contents = &s
		} else {
			rec.ContentsHex = hex.EncodeToString(contents)
		}
		return rec
	default:
		panic(fmt.Sprintf("report: unknown failure type %T", f))
	}
}

// Summary closes the report for one input.
type Summary struct {
	Kind      string `json:"kind"`
	File      string `json:"file,omitempty"`
	Rows      uint64 `json:"rows"`
	Cells     uint64 `json:"cells"`
	Failures  uint64 `json:"failures"`
	BytesRead int64  `json:"bytes_read"`
	// Truncated is set when the pass ended at a failure limit instead of at
	// the end of the input.
	Truncated bool `json:"truncated"`
}

// NewSummary builds the summary for one stream from its stats.
func NewSummary(file string, st check.Stats, truncated bool) Summary {
	return Summary{
		Kind:      KindSummary,
		File:      file,
		Rows:      st.Rows,
		Cells:     st.Cells,
		Failures:  st.Failures,
		BytesRead: st.BytesRead,
		Truncated: truncated,
	}
}

// Writer is implemented by Printer and JSONWriter.
type Writer interface {
	WriteFailure(file string, f check.Failure) error
	WriteSummary(s Summary) error
}
