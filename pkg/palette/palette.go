// Package palette holds the static colour and label tables used to render
// parties, vote positions and districts.
package palette

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

// Neutral is used for parties without a registered colour.
const Neutral = "#9CA3AF"

var partyColors = map[string]string{
	"PS":     "#FF66B3",
	"PSD":    "#FF9900",
	"AD":     "#FF9900",
	"CH":     "#202056",
	"IL":     "#00ADEF",
	"BE":     "#C90535",
	"PCP":    "#E2001A",
	"CDU":    "#E2001A",
	"PEV":    "#00A13A",
	"L":      "#00CD8C",
	"LIVRE":  "#00CD8C",
	"PAN":    "#1D7A89",
	"CDS-PP": "#0093DD",
	"JPP":    "#00AFA3",
}

var positionColors = map[api.Position]string{
	api.PositionFavor:     "#16A34A",
	api.PositionContra:    "#DC2626",
	api.PositionAbstencao: "#CA8A04",
	api.PositionAusente:   "#6B7280",
}

var positionLabels = map[api.Position]string{
	api.PositionFavor:     "A favor",
	api.PositionContra:    "Contra",
	api.PositionAbstencao: "Abstenção",
	api.PositionAusente:   "Ausente",
}

// Districts lists the electoral districts in official order.
var Districts = []string{
	"Aveiro", "Beja", "Braga", "Bragança", "Castelo Branco", "Coimbra",
	"Évora", "Faro", "Guarda", "Leiria", "Lisboa", "Portalegre", "Porto",
	"Santarém", "Setúbal", "Viana do Castelo", "Vila Real", "Viseu",
	"Açores", "Madeira", "Europa", "Fora da Europa",
}

// PartyColor returns the hex colour of a party. A colour reported by the
// backend takes precedence over the table.
func PartyColor(party api.Party) string {
	if c := strings.TrimSpace(party.Color); strings.HasPrefix(c, "#") {
		return c
	}
	return Color(party.Acronym)
}

// Color returns the hex colour for a party acronym, or Neutral.
func Color(acronym string) string {
	if c, ok := partyColors[strings.ToUpper(strings.TrimSpace(acronym))]; ok {
		return c
	}
	return Neutral
}

// Style returns a bold style in the party's colour.
func Style(acronym string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Color(acronym)))
}

// PositionColor returns the colour of a vote position.
func PositionColor(p api.Position) string {
	if c, ok := positionColors[p]; ok {
		return c
	}
	return Neutral
}

// PositionLabel returns the display label of a vote position.
func PositionLabel(p api.Position) string {
	if label, ok := positionLabels[p]; ok {
		return label
	}
	return string(p)
}

// PositionStyle returns a style in the position's colour.
func PositionStyle(p api.Position) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(PositionColor(p)))
}
