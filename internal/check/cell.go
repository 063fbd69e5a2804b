package check

import (
	"fmt"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Reasons reported by the structural checks.
const (
	ReasonEmptyCell          = "empty cell"
	ReasonLeadingWhitespace  = "leading whitespace"
	ReasonTrailingWhitespace = "trailing whitespace"
	ReasonMiddleWhitespace   = "whitespace in the middle"
)

// AppendCellChecks runs the checks for one cell and appends what they find
// to dst. The categories run in order and the first one that reports
// anything ends the checks for the cell:
//
//  1. the cell is empty
//  2. whitespace or invalid UTF-8 (only the first occurrence)
//  3. cs.CheckMore
func AppendCellChecks(dst []SubFailure, cell []byte, cs CellSettings) []SubFailure {
	if len(cell) == 0 {
		return append(dst, SubFailure{Reason: ReasonEmptyCell})
	}
	n := len(dst)
	dst = appendWhitespaceChecks(dst, cell)
	if len(dst) > n {
		return dst
	}
	return cs.CheckMore(dst, cell)
}

// appendWhitespaceChecks scans cell for the first ASCII whitespace byte.
// At the first byte >= 0x80 the rest of the cell is decoded as UTF-8 and
// searched for Unicode whitespace instead; a decoding error is reported as
// such. Either way the scan stops there.
func appendWhitespaceChecks(dst []SubFailure, cell []byte) []SubFailure {
	for i, b := range cell {
		if isASCIISpace(b) {
			return append(dst, SubFailure{Reason: whitespaceReason(i, len(cell))})
		}
		if b < 0x80 {
			continue
		}

		rest := cell[i:]
		if _, valid, err := transform.Bytes(encoding.UTF8Validator, rest); err != nil {
			return append(dst, SubFailure{
				Reason: fmt.Sprintf("UTF-8 decoding error: %v at byte %d", err, i+valid),
			})
		}
		pos := i
		for _, r := range string(rest) {
			if unicode.IsSpace(r) {
				return append(dst, SubFailure{
					Reason: fmt.Sprintf("whitespace (in cell with unicode) at pos %d", pos),
				})
			}
			pos++
		}
		return dst
	}
	return dst
}

func whitespaceReason(i, n int) string {
	switch {
	case i == 0:
		return ReasonLeadingWhitespace
	case i == n-1:
		return ReasonTrailingWhitespace
	default:
		return ReasonMiddleWhitespace
	}
}

// isASCIISpace matches space, tab, LF, FF and CR. Vertical tab is not
// included.
func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
