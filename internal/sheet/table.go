// Package sheet fetches the source workbook and parses it into raw named
// relations. It owns all network and XLSX concerns; downstream packages only
// ever see Table values.
package sheet

import "strings"

// Canonical relation names produced by the loader.
const (
	SheetCraftable         = "Craftable"
	SheetLocation          = "Location"
	SheetComponent         = "Component"
	SheetComponentUsage    = "ComponentUsage"
	SheetComponentLocation = "ComponentLocation"
	SheetDismantleResult   = "DismantleResult"
)

// Table is a raw named relation parsed from one workbook sheet.
// Columns come from the sheet's first row; Rows are padded to len(Columns).
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Cell returns the value at (row, col), or "" when out of range.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// canonicalNames maps a squashed sheet name (lowercase letters only) to its
// canonical relation name. Both singular and plural spellings of the
// dismantle sheet appear in the wild.
var canonicalNames = map[string]string{
	"craftable":         SheetCraftable,
	"craftables":        SheetCraftable,
	"location":          SheetLocation,
	"locations":         SheetLocation,
	"component":         SheetComponent,
	"components":        SheetComponent,
	"componentusage":    SheetComponentUsage,
	"componentusages":   SheetComponentUsage,
	"componentlocation": SheetComponentLocation,
	"componentlocations": SheetComponentLocation,
	"dismantleresult":   SheetDismantleResult,
	"dismantleresults":  SheetDismantleResult,
}

// CanonicalSheet maps a workbook sheet name to its canonical relation name.
// Matching ignores case and every non-letter character, so "01_Craftable",
// "02 Locations" and "06_DismantleResults" all resolve. Returns false for
// sheets that are not one of the six relations (e.g. dashboards).
func CanonicalSheet(name string) (string, bool) {
	squashed := squash(name)
	canonical, ok := canonicalNames[squashed]
	return canonical, ok
}

// squash lowercases and strips everything that is not a letter.
func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
