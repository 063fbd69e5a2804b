package check

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
)

// UnexpectedColumnPolicy decides how a cell without CellSettings is handled.
type UnexpectedColumnPolicy int

const (
	// PerCell reports the cell as a CellFailure and carries on.
	PerCell UnexpectedColumnPolicy = iota
	// Fatal ends the pass with a FileFailure.
	Fatal
)

// ParseUnexpectedColumnPolicy accepts "cell" and "fatal".
func ParseUnexpectedColumnPolicy(s string) (UnexpectedColumnPolicy, error) {
	switch s {
	case "", "cell":
		return PerCell, nil
	case "fatal":
		return Fatal, nil
	}
	return PerCell, fmt.Errorf("unknown unexpected-column policy %q (want cell or fatal)", s)
}

func (p UnexpectedColumnPolicy) String() string {
	if p == Fatal {
		return "fatal"
	}
	return "cell"
}

// Options tune a validation pass. The zero value checks every cell with
// strict field counts and tolerant quoting.
type Options struct {
	UnexpectedColumn UnexpectedColumnPolicy

	// Flexible allows records to have differing numbers of fields. By
	// default a record whose field count differs from the first record's is
	// a framing error.
	Flexible bool

	// StrictQuotes makes a bare quote inside an unquoted field a framing
	// error. By default it is kept as part of the cell.
	StrictQuotes bool

	// Logger receives a debug summary when the pass ends. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Stats describes the progress of a pass.
type Stats struct {
	Rows      uint64
	Cells     uint64
	Failures  uint64
	BytesRead int64
}

// Stream is a single forward pass over a tab-separated byte stream.
type Stream struct {
	src      io.Reader
	settings FileSettings
	opts     Options

	started  bool
	closed   bool
	closeErr error
	stats    Stats
}

// NewStream prepares a pass over r. Nothing is read until Failures is
// ranged over. If r is an io.Closer it is closed when the pass ends.
func NewStream(r io.Reader, settings FileSettings, opts Options) *Stream {
	return &Stream{src: r, settings: settings, opts: opts}
}

// StreamChecks is shorthand for NewStream(r, settings, Options{}).Failures().
func StreamChecks(r io.Reader, settings FileSettings) iter.Seq[Failure] {
	return NewStream(r, settings, Options{}).Failures()
}

// Stats returns counters for the part of the stream processed so far.
func (s *Stream) Stats() Stats {
	return s.stats
}

// Close releases the underlying reader. It is safe to call more than once
// and after the pass has ended on its own; the reader is closed only once.
func (s *Stream) Close() error {
	if s.closed {
		return s.closeErr
	}
	s.closed = true
	if c, ok := s.src.(io.Closer); ok {
		s.closeErr = c.Close()
	}
	return s.closeErr
}

// Failures returns the lazy sequence of failures for the stream. Each
// failure is produced only when the range loop asks for it. Breaking out of
// the loop ends the pass and closes the reader.
//
// The stream can be ranged over once; later ranges yield nothing.
func (s *Stream) Failures() iter.Seq[Failure] {
	return func(yield func(Failure) bool) {
		if s.started || s.closed {
			return
		}
		s.started = true
		defer s.Close()
		defer s.logSummary()

		counter := &countingReader{r: s.src}
		defer func() { s.stats.BytesRead = counter.bytesRead }()

		rdr := csv.NewReader(newBOMSkippingReader(counter))
		rdr.Comma = '\t'
		rdr.ReuseRecord = true
		rdr.LazyQuotes = !s.opts.StrictQuotes
		if s.opts.Flexible {
			rdr.FieldsPerRecord = -1
		}

		var subs []SubFailure
		for row := uint64(0); ; row++ {
			record, err := rdr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				s.stats.Failures++
				yield(NewFileFailure(fmt.Sprintf("TSV parsing error: %v", err)))
				return
			}
			s.stats.Rows++

			for col, field := range record {
				loc := Location{Row: row, Col: uint(col)}
				cell := []byte(field)
				s.stats.Cells++

				cs, ok := s.settings.CellSettingsFor(loc)
				switch {
				case ok:
					subs = AppendCellChecks(subs, cell, cs)
				case s.opts.UnexpectedColumn == Fatal:
					s.stats.Failures++
					yield(NewFileFailure(fmt.Sprintf("unexpected cell at location %s", loc)))
					return
				default:
					subs = append(subs, SubFailure{Reason: fmt.Sprintf("unexpected cell at location %s", loc)})
				}

				if len(subs) == 0 {
					continue
				}
				s.stats.Failures++
				if !yield(NewCellFailure(subs, cell, loc)) {
					return
				}
				subs = subs[:0]
			}
		}
	}
}

func (s *Stream) logSummary() {
	logger := s.opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("check pass finished",
		"rows", s.stats.Rows,
		"cells", s.stats.Cells,
		"failures", s.stats.Failures,
		"bytes", s.stats.BytesRead,
	)
}
