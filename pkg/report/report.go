// Package report renders transparency reports as Markdown, optionally styled
// for the terminal.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/coolbeans/hemiciclo/pkg/analysis"
	"github.com/coolbeans/hemiciclo/pkg/api"
)

// DefaultTopN is how many deputies the attendance ranking lists.
const DefaultTopN = 10

// CohesionRow is a party's voting cohesion over the reported votes.
type CohesionRow struct {
	Party    string  `json:"partido"`
	Cohesion float64 `json:"coesao"`
}

// TransparencyReport summarises activity and disclosure for a legislature.
type TransparencyReport struct {
	Legislature string                   `json:"legislatura"`
	GeneratedAt time.Time                `json:"gerado_em"`
	Deputies    int                      `json:"deputados"`
	Attendance  float64                  `json:"assiduidade"`
	Parties     []analysis.PartyMetrics  `json:"partidos"`
	Top         []api.TransparencyRecord `json:"mais_assiduos"`
	Cohesion    []CohesionRow            `json:"coesao,omitempty"`
}

// Build assembles a report. votes may be nil, in which case the cohesion
// section is omitted.
func Build(legislature string, records []api.TransparencyRecord, votes []api.Vote, topN int) *TransparencyReport {
	if topN <= 0 {
		topN = DefaultTopN
	}

	report := &TransparencyReport{
		Legislature: legislature,
		GeneratedAt: time.Now().UTC(),
		Deputies:    len(records),
		Parties:     analysis.PartyTransparency(records),
		Top:         analysis.TopAttendance(records, topN),
	}

	present, sessions := 0, 0
	for _, record := range records {
		present += record.Present
		sessions += record.Present + record.Absent + record.JustifiedAbsent
	}
	if sessions > 0 {
		report.Attendance = float64(present) / float64(sessions)
	}

	if len(votes) > 0 {
		for _, metrics := range report.Parties {
			report.Cohesion = append(report.Cohesion, CohesionRow{
				Party:    metrics.Party,
				Cohesion: analysis.PartyCohesion(votes, metrics.Party),
			})
		}
		sort.SliceStable(report.Cohesion, func(i, j int) bool {
			return report.Cohesion[i].Cohesion > report.Cohesion[j].Cohesion
		})
	}
	return report
}

// ToMarkdown generates the report as Markdown with numbers formatted for
// European Portuguese.
func (transparencyReport *TransparencyReport) ToMarkdown() string {
	printer := message.NewPrinter(language.EuropeanPortuguese)
	var markdownBuilder strings.Builder

	title := "Relatório de Transparência"
	if transparencyReport.Legislature != "" {
		title += " · " + transparencyReport.Legislature + " Legislatura"
	}
	markdownBuilder.WriteString(fmt.Sprintf("# %s\n\n", title))

	markdownBuilder.WriteString("## Resumo\n\n")
	markdownBuilder.WriteString("| Métrica | Valor |\n")
	markdownBuilder.WriteString("|---------|-------|\n")
	markdownBuilder.WriteString(printer.Sprintf("| **Deputados** | %d |\n", transparencyReport.Deputies))
	markdownBuilder.WriteString(printer.Sprintf("| **Assiduidade** | %.1f%% |\n", transparencyReport.Attendance*100))
	markdownBuilder.WriteString(printer.Sprintf("| **Partidos** | %d |\n", len(transparencyReport.Parties)))
	markdownBuilder.WriteString("\n")

	if len(transparencyReport.Parties) > 0 {
		markdownBuilder.WriteString("## Partidos\n\n")
		markdownBuilder.WriteString("| Partido | Deputados | Assiduidade | Intervenções/deputado | Perguntas/deputado | Declarações |\n")
		markdownBuilder.WriteString("|---------|-----------|-------------|-----------------------|--------------------|-------------|\n")
		for _, metrics := range transparencyReport.Parties {
			markdownBuilder.WriteString(printer.Sprintf("| %s | %d | %.1f%% | %.1f | %.1f | %.0f%% |\n",
				escapeMarkdownTableCell(metrics.Party),
				metrics.Deputies,
				metrics.Attendance*100,
				metrics.InterventionsPerMP,
				metrics.QuestionsPerMP,
				metrics.DeclarationCompliance*100))
		}
		markdownBuilder.WriteString("\n")
	}

	if len(transparencyReport.Top) > 0 {
		markdownBuilder.WriteString("## Mais assíduos\n\n")
		markdownBuilder.WriteString("| # | Deputado | Partido | Presenças | Assiduidade |\n")
		markdownBuilder.WriteString("|---|----------|---------|-----------|-------------|\n")
		for i, record := range transparencyReport.Top {
			markdownBuilder.WriteString(printer.Sprintf("| %d | %s | %s | %d | %.1f%% |\n",
				i+1,
				escapeMarkdownTableCell(record.Name),
				escapeMarkdownTableCell(record.Party),
				record.Present,
				analysis.AttendanceRate(record)*100))
		}
		markdownBuilder.WriteString("\n")
	}

	if len(transparencyReport.Cohesion) > 0 {
		markdownBuilder.WriteString("## Coesão de voto\n\n")
		markdownBuilder.WriteString("| Partido | Coesão |\n")
		markdownBuilder.WriteString("|---------|--------|\n")
		for _, row := range transparencyReport.Cohesion {
			markdownBuilder.WriteString(printer.Sprintf("| %s | %.1f%% |\n",
				escapeMarkdownTableCell(row.Party), row.Cohesion*100))
		}
		markdownBuilder.WriteString("\n")
	}

	markdownBuilder.WriteString(fmt.Sprintf("_Gerado em %s_\n",
		transparencyReport.GeneratedAt.Format("2006-01-02 15:04 UTC")))
	return markdownBuilder.String()
}

// Render styles Markdown for the terminal. style is a glamour standard style
// name ("dark", "light", "notty", ...); "" or "auto" detects the terminal.
func Render(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	styleOption := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOption = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}

// escapeMarkdownTableCell escapes pipe characters in table cell content.
func escapeMarkdownTableCell(content string) string {
	return strings.ReplaceAll(content, "|", "\\|")
}
