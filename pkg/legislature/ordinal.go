package legislature

import (
	"strings"
)

// subtractivePairs holds the two-symbol prefixes that must be matched before
// falling back to single symbols.
var subtractivePairs = map[string]int{
	"IV": 4, "IX": 9,
	"XL": 40, "XC": 90,
	"CD": 400, "CM": 900,
}

var symbolValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50,
	'C': 100, 'D': 500, 'M': 1000,
}

// ParseOrdinal converts a Roman-numeral ordinal into its integer value.
//
// The string is scanned left to right. At each position the two-character
// prefix is tried first so subtractive pairs (IV, IX, XL, XC, CD, CM) are
// consumed together; otherwise the single symbol is added. Symbols outside
// I, V, X, L, C, D, M contribute zero, so malformed input never fails, it
// only yields a smaller number.
func ParseOrdinal(ordinal string) int {
	roman := strings.ToUpper(strings.TrimSpace(ordinal))

	total := 0
	for i := 0; i < len(roman); {
		if i+1 < len(roman) {
			if pairValue, ok := subtractivePairs[roman[i:i+2]]; ok {
				total += pairValue
				i += 2
				continue
			}
		}
		total += symbolValues[roman[i]]
		i++
	}
	return total
}

var ordinalTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// FormatOrdinal renders n (1..3999) as a Roman numeral. Values outside the
// range return an empty string.
func FormatOrdinal(n int) string {
	if n <= 0 || n > 3999 {
		return ""
	}

	var builder strings.Builder
	for _, entry := range ordinalTable {
		for n >= entry.value {
			builder.WriteString(entry.symbol)
			n -= entry.value
		}
	}
	return builder.String()
}
