package directory

import (
	"context"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

// WalkPerPage is the page size used when reading the whole directory.
const WalkPerPage = 100

// DeputyLister is the part of the API client that serves directory pages.
type DeputyLister interface {
	Deputies(ctx context.Context, query api.DeputyQuery) (*api.Page[api.Deputy], error)
}

// AllDeputies reads every page of a legislature's deputy directory. It stops
// at the last page reported by the backend or at the first empty page. When
// the backend serves smaller pages than requested, later pages use its size.
func AllDeputies(ctx context.Context, lister DeputyLister, legislatureOrdinal string) ([]api.Deputy, error) {
	var deputies []api.Deputy
	pager := NewPager(1, WalkPerPage, 0)
	for {
		page, err := lister.Deputies(ctx, api.DeputyQuery{
			Legislature: legislatureOrdinal,
			Page:        pager.Page,
			PerPage:     pager.PerPage,
		})
		if err != nil {
			return nil, err
		}
		if page == nil || len(page.Items) == 0 {
			return deputies, nil
		}
		deputies = append(deputies, page.Items...)

		perPage := pager.PerPage
		if page.PerPage > 0 && page.PerPage < perPage {
			perPage = page.PerPage
		}
		pager = NewPager(pager.Page, perPage, page.Total)
		if !pager.HasNext() {
			return deputies, nil
		}
		pager = pager.Next()
	}
}
