// Package api provides a client for the parliamentary transparency backend:
// legislatures, parties, deputies, roll-call votes, coalitions and
// transparency metrics, all served as JSON over HTTP.
package api

import (
	"strings"
	"time"
)

// Position is how a deputy voted on a motion.
type Position string

const (
	PositionFavor     Position = "favor"
	PositionContra    Position = "contra"
	PositionAbstencao Position = "abstencao"
	PositionAusente   Position = "ausente"
)

// Positions lists the vote positions in display order.
var Positions = []Position{PositionFavor, PositionContra, PositionAbstencao, PositionAusente}

// ParsePosition converts a backend string to a Position. Unknown values are
// treated as absences.
func ParsePosition(s string) Position {
	normalized := strings.TrimSpace(strings.ToLower(s))
	switch normalized {
	case "favor", "a favor", "sim", "yes", "for":
		return PositionFavor
	case "contra", "não", "nao", "no", "against":
		return PositionContra
	case "abstencao", "abstenção", "abst", "abstain":
		return PositionAbstencao
	default:
		return PositionAusente
	}
}

// String returns the string representation of a Position.
func (p Position) String() string {
	return string(p)
}

// Party is a parliamentary group as listed for a legislature.
type Party struct {
	Acronym   string `json:"sigla"`
	Name      string `json:"nome"`
	Color     string `json:"cor,omitempty"`
	Seats     int    `json:"deputados"`
	Coalition string `json:"coligacao,omitempty"`
}

// PartyDetail is a party together with its sitting deputies.
type PartyDetail struct {
	Party
	Deputies []Deputy `json:"membros"`
}

// Mandate is a deputy's period of service within one legislature.
type Mandate struct {
	Legislature string     `json:"legislatura"`
	Party       string     `json:"partido"`
	District    string     `json:"circulo"`
	Start       *time.Time `json:"inicio,omitempty"`
	End         *time.Time `json:"fim,omitempty"`
}

// Deputy is a member of parliament.
type Deputy struct {
	ID          string    `json:"id"`
	Name        string    `json:"nome"`
	Party       string    `json:"partido"`
	District    string    `json:"circulo"`
	Legislature string    `json:"legislatura,omitempty"`
	Active      bool      `json:"ativo"`
	PhotoURL    string    `json:"foto_url,omitempty"`
	Mandates    []Mandate `json:"mandatos,omitempty"`
}

// Coalition is a named grouping of parties contesting or serving jointly.
type Coalition struct {
	Name    string   `json:"nome"`
	Acronym string   `json:"sigla"`
	Parties []string `json:"partidos"`
}

// PartyTally counts a party's positions on one vote.
type PartyTally struct {
	Favor     int `json:"favor"`
	Contra    int `json:"contra"`
	Abstencao int `json:"abstencao"`
	Ausente   int `json:"ausente"`
}

// Count returns the tally for a single position.
func (t PartyTally) Count(p Position) int {
	switch p {
	case PositionFavor:
		return t.Favor
	case PositionContra:
		return t.Contra
	case PositionAbstencao:
		return t.Abstencao
	default:
		return t.Ausente
	}
}

// Ballot is an individual deputy's vote.
type Ballot struct {
	DeputyID string   `json:"deputado_id"`
	Party    string   `json:"partido"`
	Position Position `json:"voto"`
}

// Vote is a roll-call vote on a motion.
type Vote struct {
	ID          string                `json:"id"`
	Date        time.Time             `json:"data"`
	Description string                `json:"descricao"`
	Result      string                `json:"resultado"`
	Parties     map[string]PartyTally `json:"partidos,omitempty"`
	Ballots     []Ballot              `json:"votos,omitempty"`
}

// TransparencyRecord is the activity and disclosure record of one deputy.
type TransparencyRecord struct {
	DeputyID            string `json:"deputado_id"`
	Name                string `json:"nome"`
	Party               string `json:"partido"`
	Present             int    `json:"presencas"`
	Absent              int    `json:"faltas"`
	JustifiedAbsent     int    `json:"faltas_justificadas"`
	Interventions       int    `json:"intervencoes"`
	Questions           int    `json:"perguntas"`
	InterestDeclaration bool   `json:"declaracao_interesses"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items   []T `json:"data"`
	Page    int `json:"pagina"`
	PerPage int `json:"por_pagina"`
	Total   int `json:"total"`
}

// DeputyQuery filters the deputy directory.
type DeputyQuery struct {
	Legislature string
	Party       string
	District    string
	Search      string
	Page        int
	PerPage     int
}
