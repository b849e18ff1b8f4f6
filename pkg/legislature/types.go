// Package legislature orders parliamentary terms by their Roman-numeral
// ordinal and picks the default term a view should show when the user has not
// chosen one.
package legislature

import (
	"time"
)

// Record is a normalised legislature snapshot as received from the backend.
//
// Records are read-only; every fetch produces a fresh slice and nothing in
// this package keeps state between fetches.
type Record struct {
	// Ordinal is the Roman-numeral designation of the term, e.g. "XVII".
	Ordinal string `json:"numero"`

	// Label is the human-readable name. It may repeat the ordinal.
	Label string `json:"designacao,omitempty"`

	// StartDate marks the beginning of the term, when known.
	StartDate *time.Time `json:"data_inicio,omitempty"`

	// EndDate marks the end of the term. A nil EndDate means the term is
	// ongoing unless Ended is set.
	EndDate *time.Time `json:"data_fim,omitempty"`

	// Ended is set when the backend reported an end date that could not be
	// parsed. The term is closed even though EndDate is nil.
	Ended bool `json:"encerrada,omitempty"`

	// IsCurrent is the backend's explicit flag. When set it takes precedence
	// over date-based inference.
	IsCurrent *bool `json:"is_current,omitempty"`
}

// Number returns the integer value of the record's ordinal.
func (r Record) Number() int {
	return ParseOrdinal(r.Ordinal)
}

// Current reports whether the record describes the sitting legislature:
// either the explicit flag is true or no end date was reported.
func (r Record) Current() bool {
	if r.IsCurrent != nil && *r.IsCurrent {
		return true
	}
	return r.open()
}

func (r Record) open() bool {
	return r.EndDate == nil && !r.Ended
}

// DisplayName returns the label, falling back to "<ordinal> Legislatura".
func (r Record) DisplayName() string {
	if r.Label != "" {
		return r.Label
	}
	if r.Ordinal == "" {
		return ""
	}
	return r.Ordinal + " Legislatura"
}

// Contains reports whether t falls inside the term. Open bounds match anything.
func (r Record) Contains(t time.Time) bool {
	if r.StartDate != nil && t.Before(*r.StartDate) {
		return false
	}
	if r.EndDate != nil && t.After(*r.EndDate) {
		return false
	}
	return true
}
