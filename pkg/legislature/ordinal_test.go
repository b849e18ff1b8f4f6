package legislature

import (
	"testing"
)

func TestParseOrdinal(t *testing.T) {
	tests := []struct {
		ordinal string
		want    int
	}{
		{"I", 1},
		{"IV", 4},
		{"IX", 9},
		{"XV", 15},
		{"XVI", 16},
		{"XVII", 17},
		{"XL", 40},
		{"XC", 90},
		{"CD", 400},
		{"CM", 900},
		{"MCMXCIX", 1999},
		{"MMMCMXCIX", 3999},
		{"xvii", 17},
		{"  XIV ", 14},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.ordinal, func(t *testing.T) {
			if got := ParseOrdinal(tt.ordinal); got != tt.want {
				t.Errorf("ParseOrdinal(%q) = %d, want %d", tt.ordinal, got, tt.want)
			}
		})
	}
}

func TestParseOrdinalUnknownSymbolsContributeZero(t *testing.T) {
	tests := []struct {
		ordinal string
		want    int
	}{
		{"X?V", 15},
		{"ABC", 100},
		{"Legislatura", 101},
		{"XVII-a", 17},
		{"é", 0},
	}

	for _, tt := range tests {
		if got := ParseOrdinal(tt.ordinal); got != tt.want {
			t.Errorf("ParseOrdinal(%q) = %d, want %d", tt.ordinal, got, tt.want)
		}
	}
}

func TestParseOrdinalRoundTripsEveryNumeral(t *testing.T) {
	previous := 0
	for n := 1; n <= 3999; n++ {
		roman := FormatOrdinal(n)
		got := ParseOrdinal(roman)
		if got != n {
			t.Fatalf("ParseOrdinal(FormatOrdinal(%d)=%q) = %d", n, roman, got)
		}
		if got <= previous {
			t.Fatalf("ordinal %q (%d) does not sort after %d", roman, got, previous)
		}
		previous = got
	}
}

func TestFormatOrdinal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "I"},
		{4, "IV"},
		{17, "XVII"},
		{1999, "MCMXCIX"},
		{0, ""},
		{-3, ""},
		{4000, ""},
	}

	for _, tt := range tests {
		if got := FormatOrdinal(tt.n); got != tt.want {
			t.Errorf("FormatOrdinal(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
