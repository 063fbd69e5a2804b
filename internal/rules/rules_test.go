package rules

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/tsvcheck/internal/check"
)

const strainRules = `
unexpected_columns: cell
columns:
  - name: strain
    kind: regex
    pattern: '^[A-Z][A-Za-z0-9_-]*$'
    max_length: 8
  - name: replicates
    kind: integer
    min: 1
    max: 12
  - name: mean
    kind: decimal
    min: 0
  - name: measured
    kind: date
  - name: control
    kind: bool
  - name: sex
    kind: enum
    values: [male, female]
    ignore_case: true
  - name: note
    kind: any
`

func reasons(t *testing.T, s *Settings, col uint, cell string) []string {
	t.Helper()
	cs, ok := s.CellSettingsFor(check.Location{Col: col})
	if !ok {
		t.Fatalf("column %d has no settings", col)
	}
	var out []string
	for _, sf := range cs.CheckMore(nil, []byte(cell)) {
		out = append(out, sf.Reason)
	}
	return out
}

func TestParse_Kinds(t *testing.T) {
	s, err := Parse([]byte(strainRules))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name string
		col  uint
		cell string
		want []string
	}{
		{"regex ok", 0, "BXD12", nil},
		{"regex mismatch", 0, "bxd12", []string{"does not match pattern ^[A-Z][A-Za-z0-9_-]*$"}},
		{"regex and length", 0, "bxd123456", []string{"longer than 8 characters", "does not match pattern ^[A-Z][A-Za-z0-9_-]*$"}},
		{"integer ok", 1, "4", nil},
		{"integer not a number", 1, "4.5", []string{"not an integer"}},
		{"integer below", 1, "0", []string{"0 is below the minimum 1"}},
		{"integer above", 1, "+13", []string{"+13 is above the maximum 12"}},
		{"decimal ok", 2, "12.75", nil},
		{"decimal scientific", 2, "1.5e3", nil},
		{"decimal negative", 2, "-0.5", []string{"-0.5 is below the minimum 0"}},
		{"decimal NaN", 2, "NaN", []string{"invalid number format"}},
		{"decimal garbage", 2, "12,5", []string{"invalid number format"}},
		{"date iso", 3, "2021-06-25", nil},
		{"date us", 3, "6/25/2021", nil},
		{"date invalid", 3, "2021-13-01", []string{"invalid date format (use YYYY-MM-DD or similar)"}},
		{"bool yes", 4, "Yes", nil},
		{"bool invalid", 4, "maybe", []string{"must be yes/no, true/false, or 1/0"}},
		{"enum ignore case", 5, "Female", nil},
		{"enum invalid", 5, "other", []string{"value must be one of: male, female"}},
		{"any", 6, "whatever", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reasons(t, s, tt.col, tt.cell)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("CheckMore(%q) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestParse_UnexpectedColumns(t *testing.T) {
	s, err := Parse([]byte("unexpected_columns: fatal\ncolumns:\n  - kind: any\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.UnexpectedColumns != check.Fatal {
		t.Errorf("UnexpectedColumns = %v, want fatal", s.UnexpectedColumns)
	}
	if _, ok := s.CellSettingsFor(check.Location{Col: 1}); ok {
		t.Error("column B should be unexpected")
	}
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing columns", "unexpected_columns: cell\n"},
		{"unknown top-level key", "columns: []\nheaders: true\n"},
		{"bad policy", "unexpected_columns: ignore\ncolumns: []\n"},
		{"column without kind", "columns:\n  - name: a\n"},
		{"min is a string", "columns:\n  - kind: integer\n    min: low\n"},
		{"empty enum values", "columns:\n  - kind: enum\n    values: []\n"},
		{"empty document", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "rules schema validation") {
				t.Errorf("error = %v, want schema validation error", err)
			}
		})
	}
}

func TestParse_BuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"unknown kind", "columns:\n  - name: a\n    kind: gene\n", "unknown rule kind"},
		{"regex without pattern", "columns:\n  - kind: regex\n", "needs a pattern"},
		{"bad pattern", "columns:\n  - kind: regex\n    pattern: '('\n", "invalid pattern"},
		{"enum without values", "columns:\n  - kind: enum\n", "needs values"},
		{"min above max", "columns:\n  - kind: decimal\n    min: 5\n    max: 1\n", "greater than max"},
		{"length bounds", "columns:\n  - kind: any\n    min_length: 5\n    max_length: 2\n", "greater than max_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), "column A") {
				t.Errorf("error = %v, want it to name column A", err)
			}
		})
	}
}

func TestParse_UnknownKindIsSentinel(t *testing.T) {
	_, err := Parse([]byte("columns:\n  - kind: gene\n"))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("error = %v, want ErrUnknownKind", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(strainRules), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Columns) != 7 {
		t.Errorf("len(Columns) = %d, want 7", len(s.Columns))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestPermissive(t *testing.T) {
	s := Permissive()
	cs, ok := s.CellSettingsFor(check.Location{Row: 5, Col: 500})
	if !ok {
		t.Fatal("permissive settings should expect every column")
	}
	if got := cs.CheckMore(nil, []byte("x")); len(got) != 0 {
		t.Errorf("permissive check reported %v", got)
	}
}

func TestSettings_DrivesStream(t *testing.T) {
	s, err := Parse([]byte(strainRules))
	if err != nil {
		t.Fatal(err)
	}

	input := "BXD1\t3\t1.5\t2021-06-25\tyes\tmale\tok\n" +
		"bxd2\t3\t1.5\t2021-06-25\tyes\tmale\tok\textra\n"
	var got []string
	stream := check.NewStream(strings.NewReader(input), s, check.Options{Flexible: true})
	for f := range stream.Failures() {
		got = append(got, f.(*check.CellFailure).Location().String())
	}

	want := []string{"A2", "H2"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("failure locations = %v, want %v", got, want)
	}
}

func TestKinds(t *testing.T) {
	want := []string{"any", "bool", "date", "decimal", "enum", "integer", "regex"}
	if got := Kinds(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
}

func TestRegisterKind_Duplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate kind")
		}
	}()
	RegisterKind("any", buildAny)
}

func TestParse_Header(t *testing.T) {
	s, err := Parse([]byte(`
header: true
columns:
  - name: strain
    kind: regex
    pattern: '^[A-Z]+$'
  - kind: integer
`))
	if err != nil {
		t.Fatal(err)
	}
	if !s.Header {
		t.Fatal("Header = false, want true")
	}

	input := "Strain\tcount\tmore\n" +
		"BXD\t3\n" +
		"species\tx\n"
	var got []string
	stream := check.NewStream(strings.NewReader(input), s, check.Options{Flexible: true})
	for f := range stream.Failures() {
		cf := f.(*check.CellFailure)
		got = append(got, cf.Location().String()+": "+strings.TrimSpace(cf.Reason()))
	}

	want := []string{
		"C1: unexpected cell at location C1",
		"A3: does not match pattern ^[A-Z]+$",
		"B3: not an integer",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("failures:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestParse_HeaderMismatch(t *testing.T) {
	s, err := Parse([]byte("header: true\ncolumns:\n  - name: strain\n    kind: any\n"))
	if err != nil {
		t.Fatal(err)
	}
	cs, ok := s.CellSettingsFor(check.Location{Row: 0, Col: 0})
	if !ok {
		t.Fatal("header cell has no settings")
	}
	subs := cs.CheckMore(nil, []byte("name"))
	if len(subs) != 1 || subs[0].Reason != `header "name" does not match column name "strain"` {
		t.Errorf("sub-failures = %v", subs)
	}
}
