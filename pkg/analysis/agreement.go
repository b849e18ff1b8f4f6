package analysis

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

// AgreementMatrix records how often the majority positions of two parties
// coincided on votes where both had deputies present.
type AgreementMatrix struct {
	// Parties is the ordered list of party acronyms.
	Parties []string `json:"partidos"`

	// Agreed[i][j] is the number of votes on which Parties[i] and Parties[j]
	// took the same majority position.
	Agreed [][]int `json:"concordancias"`

	// Shared[i][j] is the number of votes on which both parties were present.
	Shared [][]int `json:"comuns"`
}

// PartyPair is the agreement rate between two parties.
type PartyPair struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Rate   float64 `json:"taxa"`
	Shared int     `json:"comuns"`
}

// BuildAgreementMatrix compares every pair of parties across the votes.
func BuildAgreementMatrix(votes []api.Vote) *AgreementMatrix {
	partySet := make(map[string]bool)
	for _, vote := range votes {
		for party := range vote.Parties {
			partySet[party] = true
		}
	}
	parties := make([]string, 0, len(partySet))
	for party := range partySet {
		parties = append(parties, party)
	}
	sort.Strings(parties)

	index := make(map[string]int, len(parties))
	for i, party := range parties {
		index[party] = i
	}

	n := len(parties)
	matrix := &AgreementMatrix{
		Parties: parties,
		Agreed:  make([][]int, n),
		Shared:  make([][]int, n),
	}
	for i := range parties {
		matrix.Agreed[i] = make([]int, n)
		matrix.Shared[i] = make([]int, n)
	}

	for _, vote := range votes {
		majorities := make(map[int]api.Position, len(vote.Parties))
		for party, tally := range vote.Parties {
			if position, ok := MajorityPosition(tally); ok {
				majorities[index[party]] = position
			}
		}
		for i, positionI := range majorities {
			for j, positionJ := range majorities {
				if i == j {
					continue
				}
				matrix.Shared[i][j]++
				if positionI == positionJ {
					matrix.Agreed[i][j]++
				}
			}
		}
	}
	return matrix
}

// Rate returns the agreement rate between two parties. ok is false when
// either party is unknown or they never voted together.
func (m *AgreementMatrix) Rate(a, b string) (rate float64, ok bool) {
	i, j := m.indexOf(a), m.indexOf(b)
	if i < 0 || j < 0 || i == j || m.Shared[i][j] == 0 {
		return 0, false
	}
	return float64(m.Agreed[i][j]) / float64(m.Shared[i][j]), true
}

// Pairs returns every party pair that shared at least one vote, most aligned
// first.
func (m *AgreementMatrix) Pairs() []PartyPair {
	var pairs []PartyPair
	for i := range m.Parties {
		for j := i + 1; j < len(m.Parties); j++ {
			if m.Shared[i][j] == 0 {
				continue
			}
			pairs = append(pairs, PartyPair{
				A:      m.Parties[i],
				B:      m.Parties[j],
				Rate:   float64(m.Agreed[i][j]) / float64(m.Shared[i][j]),
				Shared: m.Shared[i][j],
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Rate != pairs[j].Rate {
			return pairs[i].Rate > pairs[j].Rate
		}
		return pairs[i].Shared > pairs[j].Shared
	})
	return pairs
}

func (m *AgreementMatrix) indexOf(party string) int {
	for i, p := range m.Parties {
		if p == party {
			return i
		}
	}
	return -1
}

// FormatTable renders the matrix as percentages in a fixed-width table.
func (m *AgreementMatrix) FormatTable() string {
	if len(m.Parties) == 0 {
		return "No votes to compare.\n"
	}

	colWidth := 5
	for _, party := range m.Parties {
		if len(party)+1 > colWidth {
			colWidth = len(party) + 1
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", colWidth+1))
	for _, party := range m.Parties {
		sb.WriteString(fmt.Sprintf("%*s ", colWidth, party))
	}
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", colWidth+1))
	for range m.Parties {
		sb.WriteString(strings.Repeat("─", colWidth) + " ")
	}
	sb.WriteString("\n")

	for i, party := range m.Parties {
		sb.WriteString(fmt.Sprintf("%*s│", colWidth, party))
		for j := range m.Parties {
			switch {
			case i == j:
				sb.WriteString(fmt.Sprintf("%*s ", colWidth, "-"))
			case m.Shared[i][j] == 0:
				sb.WriteString(fmt.Sprintf("%*s ", colWidth, "·"))
			default:
				rate := 100 * float64(m.Agreed[i][j]) / float64(m.Shared[i][j])
				sb.WriteString(fmt.Sprintf("%*.0f%% ", colWidth-1, rate))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToCSV generates a CSV representation of the agreement rates.
func (m *AgreementMatrix) ToCSV() string {
	if len(m.Parties) == 0 {
		return ""
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := append([]string{"Party"}, m.Parties...)
	w.Write(header)

	for i, party := range m.Parties {
		row := []string{party}
		for j := range m.Parties {
			switch {
			case i == j:
				row = append(row, "-")
			case m.Shared[i][j] == 0:
				row = append(row, "")
			default:
				row = append(row, fmt.Sprintf("%.3f", float64(m.Agreed[i][j])/float64(m.Shared[i][j])))
			}
		}
		w.Write(row)
	}

	w.Flush()
	return sb.String()
}

// ToJSON serializes the matrix to JSON.
func (m *AgreementMatrix) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
