package directory

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

// Fold lower-cases s and strips diacritics so "Évora" and "evora" compare
// equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Filter selects deputies. Empty fields match everything.
type Filter struct {
	Query    string
	Party    string
	District string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Party == "" && f.District == ""
}

// Match reports whether the deputy passes the filter. Query matches a
// substring of the name, ignoring case and accents; party and district must
// match exactly after folding.
func (f Filter) Match(deputy api.Deputy) bool {
	if f.Party != "" && Fold(deputy.Party) != Fold(f.Party) {
		return false
	}
	if f.District != "" && Fold(deputy.District) != Fold(f.District) {
		return false
	}
	if query := Fold(f.Query); query != "" {
		return strings.Contains(Fold(deputy.Name), query)
	}
	return true
}

// Apply returns the deputies that pass the filter, in input order.
func (f Filter) Apply(deputies []api.Deputy) []api.Deputy {
	matched := make([]api.Deputy, 0, len(deputies))
	for _, deputy := range deputies {
		if f.Match(deputy) {
			matched = append(matched, deputy)
		}
	}
	return matched
}

// MatchParty reports whether the party's acronym or name contains the query.
func MatchParty(party api.Party, query string) bool {
	query = Fold(query)
	if query == "" {
		return true
	}
	return strings.Contains(Fold(party.Acronym), query) || strings.Contains(Fold(party.Name), query)
}

// SortByName returns a copy of the deputies ordered by name using Portuguese
// collation.
func SortByName(deputies []api.Deputy) []api.Deputy {
	sorted := make([]api.Deputy, len(deputies))
	copy(sorted, deputies)

	collator := collate.New(language.Portuguese, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return collator.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}
