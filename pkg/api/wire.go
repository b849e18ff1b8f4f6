package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/hemiciclo/pkg/legislature"
)

// JSON structures as served by the backend. They are converted to the
// exported domain types before leaving the package.

// flexString accepts a JSON string or number; the backend is inconsistent
// about numeric identifiers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

type jsonPagination struct {
	Page    int `json:"pagina"`
	PerPage int `json:"por_pagina"`
	Total   int `json:"total"`
}

// jsonEnvelope covers the {"data": ..., "paginacao": ...} wrapper and the
// error fields some endpoints report with a 200 status.
type jsonEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *jsonPagination `json:"paginacao"`
	Error      *string         `json:"error"`
	Erro       *string         `json:"erro"`
	Success    *bool           `json:"success"`
	Message    string          `json:"message"`
}

type jsonParty struct {
	Sigla     string       `json:"sigla"`
	Nome      string       `json:"nome"`
	Cor       string       `json:"cor"`
	Deputados int          `json:"deputados"`
	Coligacao string       `json:"coligacao"`
	Membros   []jsonDeputy `json:"membros"`
}

type jsonMandate struct {
	Legislatura flexString `json:"legislatura"`
	Partido     string     `json:"partido"`
	Circulo     string     `json:"circulo"`
	Inicio      *string    `json:"inicio"`
	Fim         *string    `json:"fim"`
}

type jsonDeputy struct {
	ID          flexString    `json:"id"`
	Nome        string        `json:"nome"`
	Partido     string        `json:"partido"`
	Circulo     string        `json:"circulo"`
	Legislatura flexString    `json:"legislatura"`
	Ativo       *bool         `json:"ativo"`
	FotoURL     string        `json:"foto_url"`
	Mandatos    []jsonMandate `json:"mandatos"`
}

type jsonCoalition struct {
	Nome     string   `json:"nome"`
	Sigla    string   `json:"sigla"`
	Partidos []string `json:"partidos"`
}

type jsonBallot struct {
	DeputadoID flexString `json:"deputado_id"`
	Partido    string     `json:"partido"`
	Voto       string     `json:"voto"`
}

type jsonVote struct {
	ID        flexString            `json:"id"`
	Data      string                `json:"data"`
	Descricao string                `json:"descricao"`
	Resultado string                `json:"resultado"`
	Partidos  map[string]PartyTally `json:"partidos"`
	Votos     []jsonBallot          `json:"votos"`
}

type jsonTransparency struct {
	DeputadoID           flexString `json:"deputado_id"`
	Nome                 string     `json:"nome"`
	Partido              string     `json:"partido"`
	Presencas            int        `json:"presencas"`
	Faltas               int        `json:"faltas"`
	FaltasJustificadas   int        `json:"faltas_justificadas"`
	Intervencoes         int        `json:"intervencoes"`
	Perguntas            int        `json:"perguntas"`
	DeclaracaoInteresses bool       `json:"declaracao_interesses"`
}

// checkPayload reports an application-level error embedded in an object
// payload. Array payloads never carry one.
func checkPayload(body []byte, url string) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ErrEmpty
	}
	if trimmed[0] != '{' {
		return nil
	}

	var envelope jsonEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", url, err)
	}
	switch {
	case envelope.Error != nil && *envelope.Error != "":
		return &APIError{Message: *envelope.Error, URL: url}
	case envelope.Erro != nil && *envelope.Erro != "":
		return &APIError{Message: *envelope.Erro, URL: url}
	case envelope.Success != nil && !*envelope.Success:
		message := envelope.Message
		if message == "" {
			message = "request was not successful"
		}
		return &APIError{Message: message, URL: url}
	}
	return nil
}

// decodeList decodes a bare JSON array or a {"data": [...]} envelope.
func decodeList[W any](body []byte) ([]W, *jsonPagination, error) {
	trimmed := bytes.TrimSpace(body)
	var items []W
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, err
		}
		return items, nil, nil
	}

	var envelope jsonEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, nil, err
	}
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, &items); err != nil {
			return nil, nil, err
		}
	}
	return items, envelope.Pagination, nil
}

// decodeObject decodes a bare object or a {"data": {...}} envelope.
func decodeObject[W any](body []byte) (*W, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	target := body
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		target = envelope.Data
	}
	var value W
	if err := json.Unmarshal(target, &value); err != nil {
		return nil, err
	}
	return &value, nil
}

func (p jsonParty) toParty() Party {
	return Party{
		Acronym:   strings.TrimSpace(p.Sigla),
		Name:      strings.TrimSpace(p.Nome),
		Color:     strings.TrimSpace(p.Cor),
		Seats:     p.Deputados,
		Coalition: strings.TrimSpace(p.Coligacao),
	}
}

func (d jsonDeputy) toDeputy() Deputy {
	deputy := Deputy{
		ID:          string(d.ID),
		Name:        strings.TrimSpace(d.Nome),
		Party:       strings.TrimSpace(d.Partido),
		District:    strings.TrimSpace(d.Circulo),
		Legislature: strings.ToUpper(string(d.Legislatura)),
		Active:      d.Ativo == nil || *d.Ativo,
		PhotoURL:    strings.TrimSpace(d.FotoURL),
	}
	for _, m := range d.Mandatos {
		deputy.Mandates = append(deputy.Mandates, Mandate{
			Legislature: strings.ToUpper(string(m.Legislatura)),
			Party:       strings.TrimSpace(m.Partido),
			District:    strings.TrimSpace(m.Circulo),
			Start:       legislature.ParseDate(m.Inicio),
			End:         legislature.ParseDate(m.Fim),
		})
	}
	return deputy
}

func (v jsonVote) toVote() Vote {
	vote := Vote{
		ID:          string(v.ID),
		Description: strings.TrimSpace(v.Descricao),
		Result:      strings.TrimSpace(v.Resultado),
		Parties:     v.Partidos,
		Ballots:     make([]Ballot, 0, len(v.Votos)),
	}
	if parsed := legislature.ParseDate(&v.Data); parsed != nil {
		vote.Date = *parsed
	}
	for _, b := range v.Votos {
		vote.Ballots = append(vote.Ballots, Ballot{
			DeputyID: string(b.DeputadoID),
			Party:    strings.TrimSpace(b.Partido),
			Position: ParsePosition(b.Voto),
		})
	}
	if len(vote.Parties) == 0 && len(vote.Ballots) > 0 {
		vote.Parties = tallyBallots(vote.Ballots)
	}
	return vote
}

// tallyBallots rebuilds per-party tallies for payloads that only list
// individual ballots.
func tallyBallots(ballots []Ballot) map[string]PartyTally {
	tallies := make(map[string]PartyTally)
	for _, b := range ballots {
		tally := tallies[b.Party]
		switch b.Position {
		case PositionFavor:
			tally.Favor++
		case PositionContra:
			tally.Contra++
		case PositionAbstencao:
			tally.Abstencao++
		default:
			tally.Ausente++
		}
		tallies[b.Party] = tally
	}
	return tallies
}

func (t jsonTransparency) toRecord() TransparencyRecord {
	return TransparencyRecord{
		DeputyID:            string(t.DeputadoID),
		Name:                strings.TrimSpace(t.Nome),
		Party:               strings.TrimSpace(t.Partido),
		Present:             t.Presencas,
		Absent:              t.Faltas,
		JustifiedAbsent:     t.FaltasJustificadas,
		Interventions:       t.Intervencoes,
		Questions:           t.Perguntas,
		InterestDeclaration: t.DeclaracaoInteresses,
	}
}

// sortVotesByDate orders votes oldest first; the backend does not guarantee
// any order.
func sortVotesByDate(votes []Vote) {
	sort.SliceStable(votes, func(i, j int) bool {
		return votes[i].Date.Before(votes[j].Date)
	})
}
