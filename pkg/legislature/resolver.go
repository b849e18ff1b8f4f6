package legislature

import (
	"sort"
	"sync"
)

// Order returns a copy of records sorted by ordinal, most recent first.
//
// The sort is stable: records sharing an ordinal (only possible in malformed
// data) keep their input order, so repeated fetches of the same payload
// always render identically. The input slice is not modified.
func Order(records []Record) []Record {
	ordered := make([]Record, len(records))
	copy(ordered, records)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ParseOrdinal(ordered[i].Ordinal) > ParseOrdinal(ordered[j].Ordinal)
	})
	return ordered
}

// SelectDefault picks the legislature to show when the caller has no
// selection. The first ongoing record wins (no end date, or explicitly
// flagged current); otherwise the first, most recent, record is used.
// It returns false only for an empty list.
func SelectDefault(ordered []Record) (Record, bool) {
	if len(ordered) == 0 {
		return Record{}, false
	}
	for _, record := range ordered {
		if record.Current() {
			return record, true
		}
	}
	return ordered[0], true
}

// Resolution is the outcome of one fetch cycle: the ordered list and, when
// the caller had no selection, the default legislature.
type Resolution struct {
	Ordered []Record

	// Default is nil when the caller already had a selection or the list was empty.
	Default *Record

	selected string
	notify   func(ordinal string)
	once     sync.Once
}

// Resolve orders records and computes the default for a fresh fetch.
//
// notify may be nil. It is not called here; Notify fires it at most once per
// Resolution, which lets a view call Notify on every render without
// re-announcing the default.
func Resolve(records []Record, selected string, notify func(ordinal string)) *Resolution {
	resolution := &Resolution{
		Ordered:  Order(records),
		selected: selected,
		notify:   notify,
	}

	if selected == "" {
		if record, ok := SelectDefault(resolution.Ordered); ok {
			resolution.Default = &record
		}
	}
	return resolution
}

// Selected returns the caller's selection, or the default ordinal when there
// was none. Empty when nothing can be selected.
func (r *Resolution) Selected() string {
	if r.selected != "" {
		return r.selected
	}
	if r.Default != nil {
		return r.Default.Ordinal
	}
	return ""
}

// Notify hands the default ordinal to the callback supplied to Resolve.
// Only the first call per Resolution has an effect, and nothing is fired
// when a selection already existed or no legislature is available.
func (r *Resolution) Notify() {
	if r.Default == nil || r.notify == nil {
		return
	}
	r.once.Do(func() {
		r.notify(r.Default.Ordinal)
	})
}

// Find returns the record with the given ordinal. Matching is by numeric
// value, so "xvii" and "XVII" are the same legislature.
func (r *Resolution) Find(ordinal string) (Record, bool) {
	target := ParseOrdinal(ordinal)
	if target == 0 {
		return Record{}, false
	}
	for _, record := range r.Ordered {
		if ParseOrdinal(record.Ordinal) == target {
			return record, true
		}
	}
	return Record{}, false
}

// Ordinals lists the ordinals of the ordered records.
func (r *Resolution) Ordinals() []string {
	ordinals := make([]string, 0, len(r.Ordered))
	for _, record := range r.Ordered {
		ordinals = append(ordinals, record.Ordinal)
	}
	return ordinals
}
