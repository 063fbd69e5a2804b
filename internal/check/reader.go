package check

// reader.go holds the io.Reader wrappers applied to the input of a pass:
//
//   - bomSkippingReader: drops a UTF-8 BOM (0xEF 0xBB 0xBF) written by
//     Windows spreadsheet exports
//   - countingReader: tracks bytes read for the pass statistics
//
// Invalid UTF-8 is deliberately passed through untouched; reporting it is
// the job of the cell checks.

import (
	"bufio"
	"bytes"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkippingReader drops a UTF-8 byte order mark at the start of the stream.
type bomSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{r: bufio.NewReader(r)}
}

// Read implements io.Reader. The first call looks for the BOM.
func (r *bomSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		// A short stream can't start with a BOM; Peek's error is reported
		// again by the Read below if it matters.
		if head, err := r.r.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := r.r.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.r.Read(p)
}

// countingReader wraps an io.Reader to track bytes read.
type countingReader struct {
	r         io.Reader
	bytesRead int64
}

// Read implements io.Reader.
func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.bytesRead += int64(n)
	return n, err
}
