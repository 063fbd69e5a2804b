package rules

// convert.go parses cell text into typed values for the numeric, date and
// bool kinds. Numbers are scanned by pgtype, which handles scientific notation. Cells reaching these functions are non-empty and contain no
// whitespace, so no trimming happens here.

import (
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex matches integers, decimals and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// defaultDateLayouts are tried in order when a date column sets no layouts.
var defaultDateLayouts = []string{
	"2006-01-02", "2006/01/02", "2006.01.02",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
	"20060102",
}

// parseNumeric returns an invalid Numeric for anything that is not a plain
// decimal number. NaN and Infinity are rejected.
func parseNumeric(s string) pgtype.Numeric {
	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.ScanScientific(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// parseInteger accepts an optionally signed base-10 integer that fits in
// 64 bits.
func parseInteger(s string) pgtype.Int8 {
	var n pgtype.Int8
	if err := n.Scan(s); err != nil {
		return pgtype.Int8{Valid: false}
	}
	return n
}

// parseDate tries each layout in turn.
func parseDate(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseBool accepts true/false, yes/no, t/f, y/n and 1/0 in any case.
func parseBool(s string) (value, ok bool) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}
