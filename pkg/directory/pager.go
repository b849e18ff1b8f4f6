// Package directory implements the party and deputy listings: pagination,
// text search and name ordering.
package directory

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 20

// Pager tracks the position within a paginated listing. Pages are 1-based.
type Pager struct {
	Page    int `json:"pagina"`
	PerPage int `json:"por_pagina"`
	Total   int `json:"total"`
}

// NewPager returns a pager clamped to valid bounds.
func NewPager(page, perPage, total int) Pager {
	p := Pager{Page: page, PerPage: perPage, Total: total}
	return p.clamp()
}

func (p Pager) clamp() Pager {
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.Total < 0 {
		p.Total = 0
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if pages := p.Pages(); p.Page > pages {
		p.Page = pages
	}
	return p
}

// Pages returns the number of pages; an empty listing still has one page.
func (p Pager) Pages() int {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if p.Total <= 0 {
		return 1
	}
	return (p.Total + perPage - 1) / perPage
}

// Offset is the index of the first item on the current page.
func (p Pager) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasNext reports whether a later page exists.
func (p Pager) HasNext() bool { return p.Page < p.Pages() }

// HasPrev reports whether an earlier page exists.
func (p Pager) HasPrev() bool { return p.Page > 1 }

// Next returns the pager moved one page forward, staying on the last page.
func (p Pager) Next() Pager {
	p.Page++
	return p.clamp()
}

// Prev returns the pager moved one page back, staying on the first page.
func (p Pager) Prev() Pager {
	p.Page--
	return p.clamp()
}

// Goto returns the pager on the given page, clamped to the valid range.
func (p Pager) Goto(page int) Pager {
	p.Page = page
	return p.clamp()
}

// Paginate returns the items on the requested page of a client-side list
// and the pager describing it. The returned slice shares the input's
// backing array.
func Paginate[T any](items []T, page, perPage int) ([]T, Pager) {
	pager := NewPager(page, perPage, len(items))
	start := pager.Offset()
	if start >= len(items) {
		return nil, pager
	}
	end := start + pager.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], pager
}
