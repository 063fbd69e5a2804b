package check

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// bufferedFile gives the pass a buffered reader while keeping the file's
// Close reachable through io.Closer.
type bufferedFile struct {
	*bufio.Reader
	io.Closer
}

// FileChecks opens the file at path and prepares a pass over it. An error
// is returned only when the file cannot be opened; everything found in the
// file's contents is reported through the stream's Failures.
//
// The file is closed when the range over Failures ends. Callers that might
// not range over it at all should defer Close.
func FileChecks(path string, settings FileSettings, opts Options) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("check file: %w", err)
	}
	return NewStream(bufferedFile{Reader: bufio.NewReader(f), Closer: f}, settings, opts), nil
}
