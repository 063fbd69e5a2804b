package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tsvcheck/internal/check"
)

func init() {
	RegisterKind("any", buildAny)
	RegisterKind("regex", buildRegex)
	RegisterKind("integer", buildInteger)
	RegisterKind("decimal", buildDecimal)
	RegisterKind("date", buildDate)
	RegisterKind("bool", buildBool)
	RegisterKind("enum", buildEnum)
}

func fail(dst []check.SubFailure, format string, args ...any) []check.SubFailure {
	return append(dst, check.SubFailure{Reason: fmt.Sprintf(format, args...)})
}

func buildAny(Column) (check.CellSettings, error) {
	return check.NoChecks, nil
}

func buildRegex(col Column) (check.CellSettings, error) {
	if col.Pattern == "" {
		return nil, fmt.Errorf("regex rule needs a pattern")
	}
	re, err := regexp.Compile(col.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return check.CellCheckFunc(func(dst []check.SubFailure, cell []byte) []check.SubFailure {
		if !re.Match(cell) {
			dst = fail(dst, "does not match pattern %s", re)
		}
		return dst
	}), nil
}

// bounds holds the optional min/max of a numeric column.
type bounds struct {
	min, max *float64
}

func newBounds(col Column) (bounds, error) {
	if col.Min != nil && col.Max != nil && *col.Min > *col.Max {
		return bounds{}, fmt.Errorf("min %v is greater than max %v", *col.Min, *col.Max)
	}
	return bounds{min: col.Min, max: col.Max}, nil
}

func (b bounds) check(dst []check.SubFailure, v float64, text string) []check.SubFailure {
	if b.min != nil && v < *b.min {
		dst = fail(dst, "%s is below the minimum %s", text, formatFloat(*b.min))
	}
	if b.max != nil && v > *b.max {
		dst = fail(dst, "%s is above the maximum %s", text, formatFloat(*b.max))
	}
	return dst
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func buildInteger(col Column) (check.CellSettings, error) {
	b, err := newBounds(col)
	if err != nil {
		return nil, err
	}
	return check.CellCheckFunc(func(dst []check.SubFailure, cell []byte) []check.SubFailure {
		s := string(cell)
		n := parseInteger(s)
		if !n.Valid {
			return fail(dst, "not an integer")
		}
		return b.check(dst, float64(n.Int64), s)
	}), nil
}

func buildDecimal(col Column) (check.CellSettings, error) {
	b, err := newBounds(col)
	if err != nil {
		return nil, err
	}
	return check.CellCheckFunc(func(dst []check.SubFailure, cell []byte) []check.SubFailure {
		s := string(cell)
		n := parseNumeric(s)
		if !n.Valid {
			return fail(dst, "invalid number format")
		}
		f, err := n.Float64Value()
		if err != nil {
			return fail(dst, "number out of range: %v", err)
		}
		return b.check(dst, f.Float64, s)
	}), nil
}

func buildDate(col Column) (check.CellSettings, error) {
	layouts := col.Layouts
	if len(layouts) == 0 {
		layouts = defaultDateLayouts
	}
	return check.CellCheckFunc(func(dst []check.SubFailure, cell []byte) []check.SubFailure {
		if _, ok := parseDate(string(cell), layouts); !ok {
			dst = fail(dst, "invalid date format (use YYYY-MM-DD or similar)")
		}
		return dst
	}), nil
}

func buildBool(Column) (check.CellSettings, error) {
	return check.CellCheckFunc(func(dst []check.SubFailure, cell []byte) []check.SubFailure {
		if _, ok := parseBool(string(cell)); !ok {
			dst = fail(dst, "must be yes/no, true/false, or 1/0")
		}
		return dst
	}), nil
}

func buildEnum(col Column) (check.CellSettings, error) {
	if len(col.Values) == 0 {
		return nil, fmt.Errorf("enum rule needs values")
	}
	allowed := make(map[string]struct{}, len(col.Values))
	for _, v := range col.Values {
		if col.IgnoreCase {
			v = strings.ToLower(v)
		}
		allowed[v] = struct{}{}
	}
	listed := strings.Join(col.Values, ", ")
	return check.CellCheckFunc(func(dst []check.SubFailure, cell []byte) []check.SubFailure {
		v := string(cell)
		if col.IgnoreCase {
			v = strings.ToLower(v)
		}
		if _, ok := allowed[v]; !ok {
			dst = fail(dst, "value must be one of: %s", listed)
		}
		return dst
	}), nil
}
