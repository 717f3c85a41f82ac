package columns

import (
	"testing"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		field  string
		want   int
		wantOK bool
	}{
		{"42", 42, true},
		{" 42 ", 42, true},
		{"-7", -7, true},
		{"'13'", 13, true},
		{" ' 13 ' ", 13, true},
		{"''", 0, false},
		{"", 0, false},
		{"NA", 0, false},
		{"1.5", 0, false},
		{"'13", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := ParseField(tt.field, DefaultQuote)
			if ok != tt.wantOK {
				t.Fatalf("ParseField(%q) ok = %v, want %v", tt.field, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseField(%q) = %d, want %d", tt.field, got, tt.want)
			}
		})
	}
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		line string
		sep  string
		want int
	}{
		{"1\t2", Tab, 2},
		{"1\t", Tab, 2},
		{"1", Tab, 1},
		{"1   2", Whitespace, 2},
		{"  1   2  ", Whitespace, 2},
		{"1,2,3", ",", 3},
	}

	for _, tt := range tests {
		got := SplitRow(tt.line, tt.sep)
		if len(got) != tt.want {
			t.Errorf("SplitRow(%q, %q) = %d fields, want %d", tt.line, tt.sep, len(got), tt.want)
		}
	}
}
