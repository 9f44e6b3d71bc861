package catalog

// coerce.go handles the messy reality of spreadsheet-exported cell values:
// stray whitespace, Excel formula prefixes (="value"), currency symbols and
// thousands separators in quantities. Quantity-like fields are always coerced
// to a number; anything unparseable becomes 0 rather than an error.

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// CleanCell removes common spreadsheet artifacts from a cell value:
// trims whitespace, strips an Excel formula prefix (="..."), and removes
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// Quantity coerces a cell value to a quantity. Currency symbols, thousands
// separators and accounting-style parentheses are tolerated. Empty or
// non-numeric values coerce to 0.
func Quantity(s string) float64 {
	s = CleanCell(s)
	if s == "" {
		return 0
	}

	// Accounting format "(123.45)" means negative
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatQuantity renders a quantity for display: whole numbers drop the
// decimal point ("3"), fractional values keep their shortest representation
// ("2.5"). Applied identically in every aggregation.
func FormatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return strconv.FormatInt(int64(q), 10)
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}
