package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coolbeans/hemiciclo/pkg/analysis"
	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/fetch"
	"github.com/coolbeans/hemiciclo/pkg/palette"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Padding(0, 1)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

// View renders the dashboard.
func (m *Model) View() string {
	sections := []string{m.renderHeader(), m.renderTabs()}
	if m.dropdown.IsOpen() {
		sections = append(sections, m.renderDropdown())
	}
	sections = append(sections, "", m.renderBody(), "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	label := m.dropdown.SelectedLabel()
	switch {
	case label != "":
	case m.legislatures.Current().IsError():
		label = errorStyle.Render(m.legislatures.Current().Message)
	case m.legislatures.Current().IsLoading():
		label = mutedStyle.Render("a carregar legislaturas…")
	default:
		label = mutedStyle.Render("sem legislatura")
	}
	return fmt.Sprintf("%s  %s", titleStyle.Render("⬡ HEMICICLO"), label)
}

func (m *Model) renderTabs() string {
	var rendered []string
	for _, key := range m.tabs.Keys() {
		title := tabTitles[key]
		if key == m.tabs.Active() {
			rendered = append(rendered, activeTabStyle.Render(title))
		} else {
			rendered = append(rendered, tabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderDropdown() string {
	var lines []string
	for i, option := range m.dropdown.Options() {
		cursor := "  "
		if i == m.dropdown.Highlighted() {
			cursor = "> "
		}
		marker := ""
		if option.Value == m.dropdown.Selected() {
			marker = " ✓"
		}
		lines = append(lines, cursor+option.Label+marker)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderBody() string {
	switch m.tabs.Active() {
	case tabParties:
		return renderResult(m.parties.Current(), renderParties)
	case tabDeputies:
		return renderResult(m.deputies.Current(), m.renderDeputies)
	case tabDistricts:
		return renderResult(m.districts.Current(), renderDistricts)
	case tabTransparency:
		return renderResult(m.transparency.Current(), renderTransparency)
	}
	return ""
}

func renderResult[T any](result fetch.Result[T], render func(T) string) string {
	switch result.Status {
	case fetch.StatusError:
		return errorStyle.Render("⚠ " + result.Message)
	case fetch.StatusReady:
		return render(result.Data)
	default:
		return mutedStyle.Render("A carregar…")
	}
}

func renderParties(parties []api.Party) string {
	var sb strings.Builder
	for _, party := range parties {
		sb.WriteString(fmt.Sprintf("%-10s %-40s %3d\n",
			palette.Style(party.Acronym).Render(party.Acronym), party.Name, party.Seats))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) renderDeputies(page *api.Page[api.Deputy]) string {
	var sb strings.Builder
	for _, deputy := range page.Items {
		sb.WriteString(fmt.Sprintf("%-36s %-10s %s\n",
			deputy.Name, palette.Style(deputy.Party).Render(deputy.Party), deputy.District))
	}
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("Página %d de %d · %d deputados",
		m.pager.Page, m.pager.Pages(), m.pager.Total)))
	return sb.String()
}

func renderDistricts(groups []analysis.DistrictGroup) string {
	var sb strings.Builder
	for _, group := range groups {
		parties := make([]string, 0, len(group.Parties))
		for party := range group.Parties {
			parties = append(parties, party)
		}
		sort.Slice(parties, func(i, j int) bool {
			if group.Parties[parties[i]] != group.Parties[parties[j]] {
				return group.Parties[parties[i]] > group.Parties[parties[j]]
			}
			return parties[i] < parties[j]
		})

		var seats []string
		for _, party := range parties {
			seats = append(seats, fmt.Sprintf("%s %d", palette.Style(party).Render(party), group.Parties[party]))
		}
		sb.WriteString(fmt.Sprintf("%-20s %3d  %s\n", group.District, group.Seats, strings.Join(seats, " · ")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTransparency(metrics []analysis.PartyMetrics) string {
	var sb strings.Builder
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%-10s %12s %14s %12s", "Partido", "Assiduidade", "Intervenções", "Declarações")))
	sb.WriteString("\n")
	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("%-10s %11.1f%% %14.1f %11.0f%%\n",
			palette.Style(m.Party).Render(m.Party), m.Attendance*100, m.InterventionsPerMP, m.DeclarationCompliance*100))
	}
	return strings.TrimRight(sb.String(), "\n")
}
