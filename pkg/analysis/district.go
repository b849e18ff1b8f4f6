// Package analysis aggregates parliamentary data on the client: district
// seat groups, party voting cohesion, inter-party agreement and transparency
// metrics.
package analysis

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

// UnknownDistrict labels deputies whose electoral district is not reported.
const UnknownDistrict = "Desconhecido"

// DistrictGroup is the set of deputies elected by one district.
type DistrictGroup struct {
	District string         `json:"circulo"`
	Seats    int            `json:"mandatos"`
	Parties  map[string]int `json:"partidos"`
	Deputies []api.Deputy   `json:"deputados"`
}

// GroupByDistrict groups deputies by electoral district. Groups are ordered by
// seat count descending, then by district name; deputies within a group are
// sorted by name. Names are compared with Portuguese collation so accented
// names sort where a reader expects them.
func GroupByDistrict(deputies []api.Deputy) []DistrictGroup {
	byDistrict := make(map[string]*DistrictGroup)
	for _, deputy := range deputies {
		district := strings.TrimSpace(deputy.District)
		if district == "" {
			district = UnknownDistrict
		}
		group, ok := byDistrict[district]
		if !ok {
			group = &DistrictGroup{District: district, Parties: make(map[string]int)}
			byDistrict[district] = group
		}
		group.Seats++
		group.Parties[deputy.Party]++
		group.Deputies = append(group.Deputies, deputy)
	}

	collator := collate.New(language.Portuguese, collate.IgnoreCase)
	groups := make([]DistrictGroup, 0, len(byDistrict))
	for _, group := range byDistrict {
		sort.SliceStable(group.Deputies, func(i, j int) bool {
			return collator.CompareString(group.Deputies[i].Name, group.Deputies[j].Name) < 0
		})
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Seats != groups[j].Seats {
			return groups[i].Seats > groups[j].Seats
		}
		return collator.CompareString(groups[i].District, groups[j].District) < 0
	})
	return groups
}
