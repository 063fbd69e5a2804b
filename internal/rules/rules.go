// Package rules builds the column-specific checks for a kind of file from
// a YAML rules file.
//
// A rules file lists the expected columns in order; column i of every
// record is checked by the i-th entry, and cells beyond the last entry are
// unexpected:
//
//	unexpected_columns: cell
//	columns:
//	  - name: strain
//	    kind: regex
//	    pattern: '^[A-Z][A-Za-z0-9_-]*$'
//	  - name: mean
//	    kind: decimal
//	    min: 0
//
// The file is checked against an embedded JSON schema before any rule is
// compiled. Rule kinds come from a registry; see [RegisterKind].
package rules

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/tsvcheck/internal/check"
	"gopkg.in/yaml.v3"
)

// File is the decoded form of a rules file.
type File struct {
	UnexpectedColumns string `yaml:"unexpected_columns,omitempty" json:"unexpected_columns,omitempty"`
	// Header marks the first row as column names. Each header cell must
	// equal its column's name, ignoring case; column rules start at row 2.
	Header  bool     `yaml:"header,omitempty" json:"header,omitempty"`
	Columns []Column `yaml:"columns" json:"columns"`
}

// Column describes the checks for one column.
type Column struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Kind string `yaml:"kind" json:"kind"`

	Pattern    string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`         // regex
	Min        *float64 `yaml:"min,omitempty" json:"min,omitempty"`                 // integer, decimal
	Max        *float64 `yaml:"max,omitempty" json:"max,omitempty"`                 // integer, decimal
	Values     []string `yaml:"values,omitempty" json:"values,omitempty"`           // enum
	IgnoreCase bool     `yaml:"ignore_case,omitempty" json:"ignore_case,omitempty"` // enum
	Layouts    []string `yaml:"layouts,omitempty" json:"layouts,omitempty"`         // date

	MinLength int `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength int `yaml:"max_length,omitempty" json:"max_length,omitempty"`
}

// Settings is a check.FileSettings built from a rules file.
type Settings struct {
	// Columns is the rules file's column list, nil for Permissive settings.
	Columns []Column
	// UnexpectedColumns is the policy the rules file asked for.
	UnexpectedColumns check.UnexpectedColumnPolicy
	// Header reports whether the first row holds column names.
	Header bool

	lookup check.FileSettings
}

// CellSettingsFor implements check.FileSettings.
func (s *Settings) CellSettingsFor(loc check.Location) (check.CellSettings, bool) {
	return s.lookup.CellSettingsFor(loc)
}

// Permissive returns settings that expect any number of columns and add
// no checks beyond the structural ones.
func Permissive() *Settings {
	return &Settings{lookup: check.AnyColumn(check.NoChecks)}
}

// Load reads and compiles the rules file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return s, nil
}

// Parse validates data against the rules schema and compiles it.
func Parse(data []byte) (*Settings, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	return Build(f)
}

// Build compiles every column of f. Errors name the offending column.
func Build(f File) (*Settings, error) {
	policy, err := check.ParseUnexpectedColumnPolicy(f.UnexpectedColumns)
	if err != nil {
		return nil, err
	}

	cols := make(check.Columns, len(f.Columns))
	for i, col := range f.Columns {
		cs, err := buildColumn(col)
		if err != nil {
			return nil, fmt.Errorf("column %s (%s): %w", check.ColumnName(uint(i)), displayName(col), err)
		}
		cols[i] = cs
	}

	s := &Settings{
		Columns:           f.Columns,
		UnexpectedColumns: policy,
		Header:            f.Header,
		lookup:            cols,
	}
	if f.Header {
		s.lookup = withHeader(f.Columns, cols)
	}
	return s, nil
}

// withHeader checks row 0 against the column names and every later row
// against body.
func withHeader(columns []Column, body check.Columns) check.FileSettings {
	header := make(check.Columns, len(columns))
	for i, col := range columns {
		header[i] = headerCell(col.Name)
	}
	return check.FileSettingsFunc(func(loc check.Location) (check.CellSettings, bool) {
		if loc.Row == 0 {
			return header.CellSettingsFor(loc)
		}
		return body.CellSettingsFor(loc)
	})
}

// headerCell accepts any header for an unnamed column.
func headerCell(name string) check.CellSettings {
	if name == "" {
		return check.NoChecks
	}
	return check.CellCheckFunc(func(dst []check.SubFailure, cell []byte) []check.SubFailure {
		if !strings.EqualFold(string(cell), name) {
			dst = fail(dst, "header %q does not match column name %q", cell, name)
		}
		return dst
	})
}

func displayName(col Column) string {
	if col.Name == "" {
		return "unnamed"
	}
	return col.Name
}

func buildColumn(col Column) (check.CellSettings, error) {
	build, err := lookupKind(col.Kind)
	if err != nil {
		return nil, err
	}
	cs, err := build(col)
	if err != nil {
		return nil, err
	}
	if col.MinLength == 0 && col.MaxLength == 0 {
		return cs, nil
	}
	if col.MaxLength > 0 && col.MinLength > col.MaxLength {
		return nil, fmt.Errorf("min_length %d is greater than max_length %d", col.MinLength, col.MaxLength)
	}
	return lengthChecked{minLen: col.MinLength, maxLen: col.MaxLength, next: cs}, nil
}

// lengthChecked applies character-count limits before the kind's check.
// Both report; a too-long cell can also fail its pattern.
type lengthChecked struct {
	minLen, maxLen int
	next           check.CellSettings
}

func (l lengthChecked) CheckMore(dst []check.SubFailure, cell []byte) []check.SubFailure {
	n := utf8.RuneCount(cell)
	if l.minLen > 0 && n < l.minLen {
		dst = fail(dst, "shorter than %d characters", l.minLen)
	}
	if l.maxLen > 0 && n > l.maxLen {
		dst = fail(dst, "longer than %d characters", l.maxLen)
	}
	return l.next.CheckMore(dst, cell)
}
