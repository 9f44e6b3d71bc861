package catalog

import (
	"fmt"
	"strings"
	"unicode"
)

// SchemaError reports that a sheet is missing required identity/name columns.
// It is fatal to the load: no partial snapshot is produced. The error names
// the offending sheet, the logical fields that could not be resolved, and the
// columns that were actually available, so the workbook can be fixed without
// guessing.
type SchemaError struct {
	Sheet     string
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q: cannot resolve required column(s) %s (available: %s)",
		e.Sheet, strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// ResolveColumn finds the index of a column matching one of the candidate
// spellings. Candidates are tried in order across two passes:
//
//  1. exact match, ignoring case and whitespace
//  2. substring match, ignoring case and whitespace
//
// The two-pass order means an exact candidate always wins over a looser
// substring hit from an earlier candidate. Returns false if no candidate
// matches.
func ResolveColumn(columns []string, candidates []string) (int, bool) {
	normalized := make([]string, len(columns))
	for i, c := range columns {
		normalized[i] = normalizeColumn(c)
	}

	for _, cand := range candidates {
		want := normalizeColumn(cand)
		if want == "" {
			continue
		}
		for i, col := range normalized {
			if col == want {
				return i, true
			}
		}
	}

	for _, cand := range candidates {
		want := normalizeColumn(cand)
		if want == "" {
			continue
		}
		for i, col := range normalized {
			if strings.Contains(col, want) {
				return i, true
			}
		}
	}

	return -1, false
}

// normalizeColumn lowercases a column name and strips all whitespace.
func normalizeColumn(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
