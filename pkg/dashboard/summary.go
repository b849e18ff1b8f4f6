// Package dashboard assembles the landing-page summary: the resolved
// legislature and its parties, coalitions and transparency records, fetched
// concurrently.
package dashboard

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/fetch"
	"github.com/coolbeans/hemiciclo/pkg/legislature"
)

// Source is the subset of the API client the summary needs.
type Source interface {
	Legislatures(ctx context.Context) ([]legislature.Record, error)
	Parties(ctx context.Context, legislatureOrdinal string) ([]api.Party, error)
	Coalitions(ctx context.Context, legislatureOrdinal string) ([]api.Coalition, error)
	Transparency(ctx context.Context, legislatureOrdinal string) ([]api.TransparencyRecord, error)
}

// Summary holds one result per dashboard section. Sections fail
// independently.
type Summary struct {
	Legislature  string
	Resolution   *legislature.Resolution
	Legislatures fetch.Result[[]legislature.Record]
	Parties      fetch.Result[[]api.Party]
	Coalitions   fetch.Result[[]api.Coalition]
	Transparency fetch.Result[[]api.TransparencyRecord]
}

// Summarizer fetches dashboard summaries.
type Summarizer struct {
	Source Source
	Logger *zap.Logger

	// OnDefault is told the default legislature when the caller passes no
	// selection. It fires once per Summarize call.
	OnDefault func(ordinal string)
}

// Summarize resolves the legislature, then fetches the remaining sections in
// parallel. An empty selected means "use the default legislature". When no
// legislature can be resolved the dependent sections are left in the error
// state without being requested.
func (s *Summarizer) Summarize(ctx context.Context, selected string) *Summary {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	summary := &Summary{
		Legislatures: fetch.LoadList(ctx, s.Source.Legislatures),
		Parties:      fetch.Loading[[]api.Party](),
		Coalitions:   fetch.Loading[[]api.Coalition](),
		Transparency: fetch.Loading[[]api.TransparencyRecord](),
	}

	if summary.Legislatures.IsReady() {
		summary.Resolution = legislature.Resolve(summary.Legislatures.Data, selected, s.OnDefault)
		summary.Resolution.Notify()
		summary.Legislature = summary.Resolution.Selected()
	} else {
		logger.Warn("legislature listing unavailable", zap.String("reason", summary.Legislatures.Message))
		summary.Legislature = selected
	}

	if summary.Legislature == "" {
		summary.Parties = fetch.Failed[[]api.Party](api.ErrEmpty)
		summary.Coalitions = fetch.Failed[[]api.Coalition](api.ErrEmpty)
		summary.Transparency = fetch.Failed[[]api.TransparencyRecord](api.ErrEmpty)
		return summary
	}

	ordinal := summary.Legislature
	logger.Debug("fetching dashboard sections", zap.String("legislature", ordinal))

	// Errors are folded into each section's result; no goroutine returns one.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		summary.Parties = fetch.LoadList(egCtx, func(ctx context.Context) ([]api.Party, error) {
			return s.Source.Parties(ctx, ordinal)
		})
		return nil
	})
	eg.Go(func() error {
		summary.Coalitions = fetch.LoadList(egCtx, func(ctx context.Context) ([]api.Coalition, error) {
			return s.Source.Coalitions(ctx, ordinal)
		})
		return nil
	})
	eg.Go(func() error {
		summary.Transparency = fetch.LoadList(egCtx, func(ctx context.Context) ([]api.TransparencyRecord, error) {
			return s.Source.Transparency(ctx, ordinal)
		})
		return nil
	})
	_ = eg.Wait()

	for section, message := range map[string]string{
		"parties":      summary.Parties.Message,
		"coalitions":   summary.Coalitions.Message,
		"transparency": summary.Transparency.Message,
	} {
		if message != "" {
			logger.Warn("dashboard section failed", zap.String("section", section), zap.String("reason", message))
		}
	}
	return summary
}
