package rules

import (
	"testing"
	"time"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		want      float64
	}{
		{"123", true, 123},
		{"-4.5", true, -4.5},
		{".5", true, 0.5},
		{"1e3", true, 1000},
		{"+2.", true, 2},
		{"NaN", false, 0},
		{"Infinity", false, 0},
		{"1,000", false, 0},
		{"abc", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n := parseNumeric(tt.input)
			if n.Valid != tt.wantValid {
				t.Fatalf("parseNumeric(%q).Valid = %v, want %v", tt.input, n.Valid, tt.wantValid)
			}
			if !tt.wantValid {
				return
			}
			f, err := n.Float64Value()
			if err != nil {
				t.Fatalf("Float64Value: %v", err)
			}
			if f.Float64 != tt.want {
				t.Errorf("parseNumeric(%q) = %v, want %v", tt.input, f.Float64, tt.want)
			}
		})
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		want      int64
	}{
		{"42", true, 42},
		{"-7", true, -7},
		{"9223372036854775807", true, 9223372036854775807},
		{"9223372036854775808", false, 0},
		{"1.5", false, 0},
		{"x", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n := parseInteger(tt.input)
			if n.Valid != tt.wantValid {
				t.Fatalf("parseInteger(%q).Valid = %v, want %v", tt.input, n.Valid, tt.wantValid)
			}
			if tt.wantValid && n.Int64 != tt.want {
				t.Errorf("parseInteger(%q) = %d, want %d", tt.input, n.Int64, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input  string
		wantOK bool
		want   time.Time
	}{
		{"2024-03-15", true, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"3/15/2024", true, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"20240315", true, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-02-30", false, time.Time{}},
		{"yesterday", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseDate(tt.input, defaultDateLayouts)
			if ok != tt.wantOK {
				t.Fatalf("parseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input     string
		wantValue bool
		wantOK    bool
	}{
		{"true", true, true},
		{"YES", true, true},
		{"y", true, true},
		{"1", true, true},
		{"False", false, true},
		{"n", false, true},
		{"0", false, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, ok := parseBool(tt.input)
			if value != tt.wantValue || ok != tt.wantOK {
				t.Errorf("parseBool(%q) = %v, %v; want %v, %v", tt.input, value, ok, tt.wantValue, tt.wantOK)
			}
		})
	}
}
