package columns

import (
	"strconv"
	"strings"
)

// SplitRow splits a line into fields. The Whitespace separator splits on runs
// of blanks; any other separator splits on every occurrence.
func SplitRow(line, sep string) []string {
	if sep == Whitespace {
		return strings.Fields(line)
	}
	return strings.Split(line, sep)
}

// ParseField converts a single field to an integer. Surrounding blanks and one
// pair of quote characters are stripped first.
func ParseField(field string, quote rune) (int, bool) {
	s := strings.TrimSpace(field)
	if q := string(quote); quote != 0 && len(s) >= 2*len(q) &&
		strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
		s = strings.TrimSpace(s[len(q) : len(s)-len(q)])
	}
	if s == "" {
		return 0, false
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsBlank reports whether a line carries no data.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
