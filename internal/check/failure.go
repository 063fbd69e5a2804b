package check

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Failure is one item of a validation pass: either a *FileFailure or a
// *CellFailure. The set is closed; other packages switch on the two types.
type Failure interface {
	// Reason is the short summary of what went wrong.
	Reason() string
	// PlaintextMessage is the reason plus location and contents, for people.
	PlaintextMessage() string

	failure()
}

// SubFailure is a single rule violation found in a cell.
type SubFailure struct {
	Reason string
}

// FileFailure reports a problem with the stream as a whole, such as a
// malformed record. It has no location.
type FileFailure struct {
	reason string
}

// NewFileFailure returns a FileFailure with the given reason.
func NewFileFailure(reason string) *FileFailure {
	return &FileFailure{reason: reason}
}

func (f *FileFailure) failure() {}

// Reason implements Failure.
func (f *FileFailure) Reason() string { return f.reason }

// PlaintextMessage implements Failure. It is the reason itself.
func (f *FileFailure) PlaintextMessage() string { return f.reason }

// CellFailure collects every sub-failure reported for one cell, together
// with the cell's bytes and location.
type CellFailure struct {
	subFailures []SubFailure
	contents    []byte
	location    Location
}

// NewCellFailure copies subFailures and contents into a new CellFailure.
// It panics if subFailures is empty: a cell without complaints is not a
// failure.
func NewCellFailure(subFailures []SubFailure, contents []byte, loc Location) *CellFailure {
	if len(subFailures) == 0 {
		panic("check: NewCellFailure called without sub-failures")
	}
	return &CellFailure{
		subFailures: slices.Clone(subFailures),
		contents:    slices.Clone(contents),
		location:    loc,
	}
}

func (f *CellFailure) failure() {}

// SubFailures returns the sub-failures in the order the checks reported them.
func (f *CellFailure) SubFailures() []SubFailure { return slices.Clone(f.subFailures) }

// Contents returns a copy of the raw cell bytes.
func (f *CellFailure) Contents() []byte { return slices.Clone(f.contents) }

// Location returns the address of the cell.
func (f *CellFailure) Location() Location { return f.location }

// Reason implements Failure. Each sub-failure reason is followed by a newline.
func (f *CellFailure) Reason() string {
	var b strings.Builder
	for _, sf := range f.subFailures {
		b.WriteString(sf.Reason)
		b.WriteByte('\n')
	}
	return b.String()
}

// PlaintextMessage implements Failure:
//
//	leading whitespace
//	  in cell B3
//	  contents: " x"
//
// Contents that are not valid UTF-8 are shown as a byte list.
func (f *CellFailure) PlaintextMessage() string {
	var b strings.Builder
	b.WriteString(f.Reason())
	b.WriteString("  in cell ")
	b.WriteString(f.location.String())
	b.WriteByte('\n')
	b.WriteString("  contents: ")
	b.WriteString(RenderContents(f.contents))
	return b.String()
}

// RenderContents quotes cell bytes as a Go string literal when they are
// valid UTF-8 and prints them as a decimal byte list otherwise.
func RenderContents(contents []byte) string {
	if utf8.Valid(contents) {
		return strconv.Quote(string(contents))
	}
	return fmt.Sprint(contents)
}
