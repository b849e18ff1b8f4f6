package legislature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the formats the backend has been seen to emit.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z0700",
	"02/01/2006",
	"02-01-2006",
}

// ordinalField accepts either a Roman string or a plain number.
type ordinalField string

func (o *ordinalField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*o = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = ordinalField(NormalizeOrdinal(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("numero must be a string or number: %w", err)
	}
	value, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("numero %s is not an integer: %w", n, err)
	}
	*o = ordinalField(FormatOrdinal(value))
	return nil
}

type listingEntry struct {
	Numero     ordinalField `json:"numero"`
	Designacao string       `json:"designacao"`
	DataInicio *string      `json:"data_inicio"`
	DataFim    *string      `json:"data_fim"`
	IsCurrent  *bool        `json:"is_current"`
}

type listingEnvelope struct {
	Data []listingEntry `json:"data"`
}

type historyMandate struct {
	Legislatura           ordinalField `json:"legislatura"`
	LegislaturaDesignacao string       `json:"legislatura_designacao"`
	Inicio                *string      `json:"inicio"`
	Fim                   *string      `json:"fim"`
	EmCurso               *bool        `json:"em_curso"`
}

type historyEnvelope struct {
	Mandatos []historyMandate `json:"mandatos"`
}

// FromListing normalises the global legislature listing. The payload may be
// a bare JSON array or wrapped as {"data": [...]}. Entries without an ordinal
// are dropped.
func FromListing(payload []byte) ([]Record, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return []Record{}, nil
	}

	var entries []listingEntry
	if payload[0] == '[' {
		if err := json.Unmarshal(payload, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse legislature listing: %w", err)
		}
	} else {
		var envelope listingEnvelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse legislature listing: %w", err)
		}
		entries = envelope.Data
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.Numero == "" {
			continue
		}
		endDate, ended := parseEndDate(entry.DataFim)
		records = append(records, Record{
			Ordinal:   string(entry.Numero),
			Label:     strings.TrimSpace(entry.Designacao),
			StartDate: ParseDate(entry.DataInicio),
			EndDate:   endDate,
			Ended:     ended,
			IsCurrent: entry.IsCurrent,
		})
	}
	return records, nil
}

// FromHistory normalises a per-deputy mandate history into legislature
// records. Several mandates within one legislature collapse into a single
// record spanning from the earliest start to the latest end; an open mandate
// keeps the record open.
func FromHistory(payload []byte) ([]Record, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return []Record{}, nil
	}

	var mandates []historyMandate
	if payload[0] == '[' {
		if err := json.Unmarshal(payload, &mandates); err != nil {
			return nil, fmt.Errorf("failed to parse mandate history: %w", err)
		}
	} else {
		var envelope historyEnvelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse mandate history: %w", err)
		}
		mandates = envelope.Mandatos
	}

	records := make([]Record, 0, len(mandates))
	indexByKey := make(map[string]int)
	for _, mandate := range mandates {
		if mandate.Legislatura == "" {
			continue
		}
		endDate, ended := parseEndDate(mandate.Fim)
		incoming := Record{
			Ordinal:   string(mandate.Legislatura),
			Label:     strings.TrimSpace(mandate.LegislaturaDesignacao),
			StartDate: ParseDate(mandate.Inicio),
			EndDate:   endDate,
			Ended:     ended,
			IsCurrent: mandate.EmCurso,
		}

		key := mandateKey(incoming.Ordinal)
		position, seen := indexByKey[key]
		if !seen {
			indexByKey[key] = len(records)
			records = append(records, incoming)
			continue
		}
		records[position] = mergeMandate(records[position], incoming)
	}
	return records, nil
}

// mandateKey identifies a legislature by numeric value so "XVI" and "xvi"
// collapse; unparseable ordinals are kept apart by their raw text.
func mandateKey(ordinal string) string {
	if number := ParseOrdinal(ordinal); number > 0 {
		return strconv.Itoa(number)
	}
	return "raw:" + ordinal
}

// mergeMandate widens existing so it also covers incoming.
func mergeMandate(existing, incoming Record) Record {
	if existing.Label == "" {
		existing.Label = incoming.Label
	}
	if incoming.StartDate != nil && (existing.StartDate == nil || incoming.StartDate.Before(*existing.StartDate)) {
		existing.StartDate = incoming.StartDate
	}
	switch {
	case existing.open():
		// already open
	case incoming.open():
		existing.EndDate = nil
		existing.Ended = false
	case incoming.EndDate == nil:
		// closed on an unreadable date; keep what we have
	case existing.EndDate == nil || incoming.EndDate.After(*existing.EndDate):
		existing.EndDate = incoming.EndDate
	}
	if incoming.IsCurrent != nil {
		if existing.IsCurrent == nil || *incoming.IsCurrent {
			existing.IsCurrent = incoming.IsCurrent
		}
	}
	return existing
}

// parseEndDate parses an end date. ended reports a populated value that no
// layout accepted, so the caller can still treat the term as closed.
func parseEndDate(value *string) (endDate *time.Time, ended bool) {
	endDate = ParseDate(value)
	if endDate != nil || value == nil {
		return endDate, false
	}
	return nil, strings.TrimSpace(*value) != ""
}

// NormalizeOrdinal upper-cases Roman ordinals and converts decimal strings
// ("17") to their Roman form.
func NormalizeOrdinal(s string) string {
	s = strings.TrimSpace(s)
	if value, err := strconv.Atoi(s); err == nil {
		return FormatOrdinal(value)
	}
	return strings.ToUpper(s)
}

// ParseDate parses an optional backend date. Nil, empty and unparseable
// values yield nil.
func ParseDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
