package directory

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

func TestPager(t *testing.T) {
	tests := []struct {
		name    string
		pager   Pager
		pages   int
		offset  int
		hasNext bool
		hasPrev bool
	}{
		{"first of three", NewPager(1, 10, 25), 3, 0, true, false},
		{"middle", NewPager(2, 10, 25), 3, 10, true, true},
		{"last", NewPager(3, 10, 25), 3, 20, false, true},
		{"page past end clamps", NewPager(9, 10, 25), 3, 20, false, true},
		{"page zero clamps", NewPager(0, 10, 25), 3, 0, true, false},
		{"empty listing", NewPager(1, 10, 0), 1, 0, false, false},
		{"default page size", NewPager(1, 0, 45), 3, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pages, tt.pager.Pages())
			assert.Equal(t, tt.offset, tt.pager.Offset())
			assert.Equal(t, tt.hasNext, tt.pager.HasNext())
			assert.Equal(t, tt.hasPrev, tt.pager.HasPrev())
		})
	}
}

func TestPagerNavigation(t *testing.T) {
	p := NewPager(1, 10, 25)

	p = p.Prev()
	assert.Equal(t, 1, p.Page)

	p = p.Next().Next()
	assert.Equal(t, 3, p.Page)
	p = p.Next()
	assert.Equal(t, 3, p.Page)

	assert.Equal(t, 2, p.Goto(2).Page)
	assert.Equal(t, 3, p.Goto(100).Page)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, pager := Paginate(items, 2, 3)
	assert.Equal(t, []int{4, 5, 6}, page)
	assert.Equal(t, 3, pager.Pages())

	page, _ = Paginate(items, 3, 3)
	assert.Equal(t, []int{7}, page)

	page, pager = Paginate([]int{}, 1, 3)
	assert.Empty(t, page)
	assert.Equal(t, 1, pager.Page)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "evora", Fold("Évora"))
	assert.Equal(t, "joao goncalves", Fold("  João Gonçalves "))
	assert.Equal(t, "setubal", Fold("SETÚBAL"))
}

func TestFilter(t *testing.T) {
	deputies := []api.Deputy{
		{ID: "1", Name: "João Gonçalves", Party: "PS", District: "Lisboa"},
		{ID: "2", Name: "Maria Antónia", Party: "PSD", District: "Évora"},
		{ID: "3", Name: "Joana Silva", Party: "BE", District: "Porto"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"1", "2", "3"}},
		{"accent-insensitive query", Filter{Query: "goncalves"}, []string{"1"}},
		{"prefix query", Filter{Query: "jo"}, []string{"1", "3"}},
		{"party", Filter{Party: "psd"}, []string{"2"}},
		{"district without accent", Filter{District: "evora"}, []string{"2"}},
		{"combined", Filter{Query: "jo", Party: "BE"}, []string{"3"}},
		{"no match", Filter{Query: "xyz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, d := range tt.filter.Apply(deputies) {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	assert.True(t, Filter{Query: "  "}.IsZero())
	assert.False(t, Filter{Party: "PS"}.IsZero())
}

func TestMatchParty(t *testing.T) {
	party := api.Party{Acronym: "PCP", Name: "Partido Comunista Português"}
	assert.True(t, MatchParty(party, "portugues"))
	assert.True(t, MatchParty(party, "pcp"))
	assert.True(t, MatchParty(party, ""))
	assert.False(t, MatchParty(party, "livre"))
}

func TestSortByName(t *testing.T) {
	deputies := []api.Deputy{{Name: "Zé"}, {Name: "Ângela"}, {Name: "bruno"}, {Name: "Afonso"}}

	sorted := SortByName(deputies)
	require.Len(t, sorted, 4)

	var names []string
	for _, d := range sorted {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Afonso", "Ângela", "bruno", "Zé"}, names)
	assert.Equal(t, "Zé", deputies[0].Name)
}

// pagedLister serves a fixed directory, capping the page size like a
// backend with a maximum por_pagina.
type pagedLister struct {
	deputies []api.Deputy
	maxPer   int
	pages    []int
}

func (l *pagedLister) Deputies(ctx context.Context, query api.DeputyQuery) (*api.Page[api.Deputy], error) {
	l.pages = append(l.pages, query.Page)
	perPage := query.PerPage
	if perPage > l.maxPer {
		perPage = l.maxPer
	}
	items, pager := Paginate(l.deputies, query.Page, perPage)
	return &api.Page[api.Deputy]{Items: items, Page: pager.Page, PerPage: perPage, Total: len(l.deputies)}, nil
}

func TestAllDeputiesWalksCappedPages(t *testing.T) {
	deputies := make([]api.Deputy, 230)
	for i := range deputies {
		deputies[i] = api.Deputy{ID: strconv.Itoa(i + 1)}
	}
	lister := &pagedLister{deputies: deputies, maxPer: 50}

	got, err := AllDeputies(context.Background(), lister, "XVII")
	require.NoError(t, err)
	assert.Len(t, got, 230)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, lister.pages)
	assert.Equal(t, "230", got[229].ID)
}

func TestAllDeputiesStopsOnEmptyPage(t *testing.T) {
	lister := &pagedLister{maxPer: 50}

	got, err := AllDeputies(context.Background(), lister, "XVII")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []int{1}, lister.pages)
}

func TestAllDeputiesReturnsError(t *testing.T) {
	_, err := AllDeputies(context.Background(), failingLister{}, "XVII")
	assert.ErrorIs(t, err, api.ErrTransport)
}

type failingLister struct{}

func (failingLister) Deputies(ctx context.Context, query api.DeputyQuery) (*api.Page[api.Deputy], error) {
	return nil, api.ErrTransport
}
