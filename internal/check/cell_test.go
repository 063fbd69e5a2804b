package check

import (
	"bytes"
	"strings"
	"testing"
)

// recordingChecks counts CheckMore calls and appends its configured reasons.
type recordingChecks struct {
	calls   int
	seen    [][]byte
	reasons []string
}

func (r *recordingChecks) CheckMore(dst []SubFailure, cell []byte) []SubFailure {
	r.calls++
	r.seen = append(r.seen, bytes.Clone(cell))
	for _, reason := range r.reasons {
		dst = append(dst, SubFailure{Reason: reason})
	}
	return dst
}

func TestAppendCellChecks_Structural(t *testing.T) {
	tests := []struct {
		name string
		cell []byte
		want []string
	}{
		{"empty", []byte{}, []string{ReasonEmptyCell}},
		{"only space is not empty", []byte(" "), []string{ReasonLeadingWhitespace}},
		{"leading", []byte(" abc"), []string{ReasonLeadingWhitespace}},
		{"trailing", []byte("abc "), []string{ReasonTrailingWhitespace}},
		{"middle", []byte("a c"), []string{ReasonMiddleWhitespace}},
		{"first occurrence only", []byte("a b c "), []string{ReasonMiddleWhitespace}},
		{"carriage return", []byte("abc\r"), []string{ReasonTrailingWhitespace}},
		{"form feed", []byte("a\fb"), []string{ReasonMiddleWhitespace}},
		{"unicode whitespace", []byte("é　x"), []string{"whitespace (in cell with unicode) at pos 1"}},
		{"ascii space after unicode", []byte("abé "), []string{"whitespace (in cell with unicode) at pos 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			more := &recordingChecks{reasons: []string{"domain"}}
			got := AppendCellChecks(nil, tt.cell, more)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d sub-failures %v, want %v", len(got), got, tt.want)
			}
			for i := range got {
				if got[i].Reason != tt.want[i] {
					t.Errorf("sub-failure %d = %q, want %q", i, got[i].Reason, tt.want[i])
				}
			}
			if more.calls != 0 {
				t.Errorf("domain check ran %d times, want 0", more.calls)
			}
		})
	}
}

func TestAppendCellChecks_InvalidUTF8(t *testing.T) {
	more := &recordingChecks{}
	got := AppendCellChecks(nil, []byte{'a', 'b', 0xff, 'c'}, more)

	if len(got) != 1 {
		t.Fatalf("got %d sub-failures, want 1: %v", len(got), got)
	}
	if !strings.HasPrefix(got[0].Reason, "UTF-8 decoding error: ") {
		t.Errorf("reason = %q, want UTF-8 decoding error prefix", got[0].Reason)
	}
	if !strings.Contains(got[0].Reason, "invalid UTF-8 at byte 2") {
		t.Errorf("reason = %q, want decoder diagnostic with offset", got[0].Reason)
	}
	if more.calls != 0 {
		t.Errorf("domain check ran %d times after decode error", more.calls)
	}
}

func TestAppendCellChecks_InvalidUTF8AfterValidRune(t *testing.T) {
	cell := append([]byte("é"), 0xc3)
	got := AppendCellChecks(nil, cell, NoChecks)
	if len(got) != 1 || !strings.Contains(got[0].Reason, "at byte 2") {
		t.Errorf("got %v, want one decoding error at byte 2", got)
	}
}

func TestAppendCellChecks_CleanCellRunsDomainCheckOnce(t *testing.T) {
	more := &recordingChecks{reasons: []string{"first", "second"}}
	cell := []byte("Grüße")

	got := AppendCellChecks(nil, cell, more)

	if more.calls != 1 {
		t.Fatalf("domain check ran %d times, want 1", more.calls)
	}
	if !bytes.Equal(more.seen[0], cell) {
		t.Errorf("domain check saw %q, want %q", more.seen[0], cell)
	}
	if len(got) != 2 || got[0].Reason != "first" || got[1].Reason != "second" {
		t.Errorf("got %v, want [first second] in order", got)
	}
}

func TestAppendCellChecks_CleanCellNoFailures(t *testing.T) {
	if got := AppendCellChecks(nil, []byte("ok"), NoChecks); len(got) != 0 {
		t.Errorf("got %v, want no sub-failures", got)
	}
}

func TestAppendCellChecks_KeepsExistingEntries(t *testing.T) {
	dst := []SubFailure{{Reason: "earlier"}}
	got := AppendCellChecks(dst, []byte("clean"), NoChecks)
	if len(got) != 1 || got[0].Reason != "earlier" {
		t.Errorf("got %v, want the existing entry untouched", got)
	}
}
