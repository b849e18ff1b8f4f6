package analysis

import (
	"sort"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

// AttendanceRate is the share of sessions a deputy attended. Justified
// absences count as absences. Returns 0 when no sessions are recorded.
func AttendanceRate(record api.TransparencyRecord) float64 {
	sessions := record.Present + record.Absent + record.JustifiedAbsent
	if sessions == 0 {
		return 0
	}
	return float64(record.Present) / float64(sessions)
}

// PartyMetrics aggregates transparency records of one party.
type PartyMetrics struct {
	Party                 string  `json:"partido"`
	Deputies              int     `json:"deputados"`
	Attendance            float64 `json:"assiduidade"`
	InterventionsPerMP    float64 `json:"intervencoes_por_deputado"`
	QuestionsPerMP        float64 `json:"perguntas_por_deputado"`
	DeclarationCompliance float64 `json:"declaracoes_entregues"`
}

// PartyTransparency aggregates records per party. Attendance is pooled over
// all sessions of the party's deputies rather than averaged per deputy.
// Results are ordered by attendance descending, then party acronym.
func PartyTransparency(records []api.TransparencyRecord) []PartyMetrics {
	type totals struct {
		deputies, present, sessions, interventions, questions, declared int
	}
	byParty := make(map[string]*totals)
	for _, record := range records {
		t, ok := byParty[record.Party]
		if !ok {
			t = &totals{}
			byParty[record.Party] = t
		}
		t.deputies++
		t.present += record.Present
		t.sessions += record.Present + record.Absent + record.JustifiedAbsent
		t.interventions += record.Interventions
		t.questions += record.Questions
		if record.InterestDeclaration {
			t.declared++
		}
	}

	metrics := make([]PartyMetrics, 0, len(byParty))
	for party, t := range byParty {
		m := PartyMetrics{
			Party:                 party,
			Deputies:              t.deputies,
			InterventionsPerMP:    float64(t.interventions) / float64(t.deputies),
			QuestionsPerMP:        float64(t.questions) / float64(t.deputies),
			DeclarationCompliance: float64(t.declared) / float64(t.deputies),
		}
		if t.sessions > 0 {
			m.Attendance = float64(t.present) / float64(t.sessions)
		}
		metrics = append(metrics, m)
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Attendance != metrics[j].Attendance {
			return metrics[i].Attendance > metrics[j].Attendance
		}
		return metrics[i].Party < metrics[j].Party
	})
	return metrics
}

// TopAttendance returns up to n records with the highest attendance rate,
// ties broken by name.
func TopAttendance(records []api.TransparencyRecord, n int) []api.TransparencyRecord {
	sorted := make([]api.TransparencyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := AttendanceRate(sorted[i]), AttendanceRate(sorted[j])
		if ri != rj {
			return ri > rj
		}
		return sorted[i].Name < sorted[j].Name
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
