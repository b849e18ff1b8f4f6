package report

import (
	"strings"
	"testing"
	"time"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

func buildTestRecords() []api.TransparencyRecord {
	return []api.TransparencyRecord{
		{DeputyID: "1", Name: "Ana Costa", Party: "PS", Present: 9, Absent: 1, Interventions: 4, InterestDeclaration: true},
		{DeputyID: "2", Name: "Rui Lopes", Party: "PS", Present: 6, Absent: 4, Interventions: 2},
		{DeputyID: "3", Name: "Inês | Sá", Party: "IL", Present: 10, Questions: 3, InterestDeclaration: true},
	}
}

func TestBuild(t *testing.T) {
	votes := []api.Vote{
		{ID: "v1", Parties: map[string]api.PartyTally{"PS": {Favor: 3, Contra: 1}, "IL": {Contra: 2}}},
	}

	transparencyReport := Build("XVII", buildTestRecords(), votes, 2)

	if transparencyReport.Deputies != 3 {
		t.Errorf("Deputies = %d, want 3", transparencyReport.Deputies)
	}
	if got := transparencyReport.Attendance; got < 0.833 || got > 0.834 {
		t.Errorf("Attendance = %f, want 25/30", got)
	}
	if len(transparencyReport.Top) != 2 || transparencyReport.Top[0].DeputyID != "3" {
		t.Errorf("Top = %+v", transparencyReport.Top)
	}
	if len(transparencyReport.Cohesion) != 2 || transparencyReport.Cohesion[0].Party != "IL" {
		t.Errorf("Cohesion = %+v, want IL first", transparencyReport.Cohesion)
	}
}

func TestBuildWithoutVotes(t *testing.T) {
	transparencyReport := Build("XVII", buildTestRecords(), nil, 0)
	if transparencyReport.Cohesion != nil {
		t.Errorf("expected no cohesion section, got %+v", transparencyReport.Cohesion)
	}
	if len(transparencyReport.Top) != 3 {
		t.Errorf("Top = %d records, want all 3", len(transparencyReport.Top))
	}
	if strings.Contains(transparencyReport.ToMarkdown(), "## Coesão de voto") {
		t.Error("cohesion section rendered without votes")
	}
}

func TestTransparencyReport_ToMarkdown(t *testing.T) {
	votes := []api.Vote{
		{ID: "v1", Parties: map[string]api.PartyTally{"PS": {Favor: 3, Contra: 1}}},
	}
	transparencyReport := Build("XVII", buildTestRecords(), votes, 5)
	transparencyReport.GeneratedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	markdownOutput := transparencyReport.ToMarkdown()

	expectedSubstrings := []string{
		"# Relatório de Transparência · XVII Legislatura",
		"## Resumo",
		"## Partidos",
		"## Mais assíduos",
		"## Coesão de voto",
		"| **Deputados** | 3 |",
		"83,3%",
		"Inês \\| Sá",
		"_Gerado em 2025-06-01 12:00 UTC_",
	}
	for _, expectedSubstring := range expectedSubstrings {
		if !strings.Contains(markdownOutput, expectedSubstring) {
			t.Errorf("ToMarkdown() missing expected content: %q", expectedSubstring)
		}
	}
}

func TestTransparencyReport_ToMarkdown_Empty(t *testing.T) {
	markdownOutput := Build("", nil, nil, 0).ToMarkdown()

	if !strings.HasPrefix(markdownOutput, "# Relatório de Transparência\n") {
		t.Errorf("unexpected title: %q", strings.SplitN(markdownOutput, "\n", 2)[0])
	}
	for _, section := range []string{"## Partidos", "## Mais assíduos"} {
		if strings.Contains(markdownOutput, section) {
			t.Errorf("empty report should not contain %q", section)
		}
	}
}

func TestRender(t *testing.T) {
	rendered, err := Render("# Título\n\nTexto simples.", "notty", 60)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(rendered, "Texto simples.") {
		t.Errorf("rendered output missing body: %q", rendered)
	}
}
