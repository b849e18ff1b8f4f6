package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coolbeans/hemiciclo/pkg/analysis"
	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/directory"
	"github.com/coolbeans/hemiciclo/pkg/legislature"
	"github.com/coolbeans/hemiciclo/pkg/palette"
)

func legislaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legislatures",
		Short: "List legislatures, most recent first",
		Long: `List legislatures, most recent first. The default legislature is marked
with an asterisk.

With --deputy, lists the legislatures in which that deputy served.

Example:
  hemiciclo legislatures
  hemiciclo legislatures --deputy 1234 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deputyID, _ := cmd.Flags().GetString("deputy")

			client := newClient()
			defer client.Close()

			var (
				records []legislature.Record
				err     error
			)
			if deputyID != "" {
				records, err = client.DeputyHistory(cmd.Context(), deputyID)
			} else {
				records, err = client.Legislatures(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}

			resolution := legislature.Resolve(records, "", nil)
			out := cmd.OutOrStdout()

			if jsonOutput {
				return printJSON(out, resolution.Ordered)
			}

			if len(resolution.Ordered) == 0 {
				fmt.Fprintln(out, "No legislatures available.")
				return nil
			}

			fmt.Fprintf(out, "  %-8s %4s  %-28s %-10s %-10s %s\n", "ORDINAL", "NUM", "NAME", "START", "END", "CURRENT")
			fmt.Fprintln(out, strings.Repeat("-", 78))
			for _, record := range resolution.Ordered {
				marker := " "
				if resolution.Default != nil && record.Ordinal == resolution.Default.Ordinal {
					marker = "*"
				}
				current := ""
				if record.Current() {
					current = "yes"
				}
				fmt.Fprintf(out, "%s %-8s %4d  %-28s %-10s %-10s %s\n",
					marker,
					record.Ordinal,
					record.Number(),
					truncateString(record.DisplayName(), 28),
					formatDate(record.StartDate),
					formatDate(record.EndDate),
					current,
				)
			}
			fmt.Fprintf(out, "\n%d legislature(s)\n", len(resolution.Ordered))
			return nil
		},
	}

	cmd.Flags().String("deputy", "", "Show the legislatures of this deputy ID")
	return cmd
}

func partiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parties",
		Short: "List the parties of a legislature",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")

			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}
			parties, err := client.Parties(cmd.Context(), ordinal)
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}

			matched := make([]api.Party, 0, len(parties))
			for _, party := range parties {
				if directory.MatchParty(party, query) {
					matched = append(matched, party)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, matched)
			}

			fmt.Fprintf(out, "Legislature %s\n\n", ordinal)
			fmt.Fprintf(out, "%-8s %-44s %5s  %s\n", "PARTY", "NAME", "SEATS", "COALITION")
			fmt.Fprintln(out, strings.Repeat("-", 72))
			seats := 0
			for _, party := range matched {
				seats += party.Seats
				fmt.Fprintf(out, "%s %-44s %5d  %s\n",
					palette.Style(party.Acronym).Render(fmt.Sprintf("%-8s", party.Acronym)),
					truncateString(party.Name, 44),
					party.Seats,
					party.Coalition,
				)
			}
			fmt.Fprintf(out, "\n%d party(ies), %d seat(s)\n", len(matched), seats)
			return nil
		},
	}

	legislatureFlag(cmd)
	cmd.Flags().StringP("query", "q", "", "Filter by acronym or name")
	return cmd
}

func partyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party ACRONYM",
		Short: "Show a party and its deputies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}
			detail, err := client.Party(cmd.Context(), args[0], ordinal)
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, detail)
			}

			fmt.Fprintf(out, "%s  %s\n", palette.Style(detail.Acronym).Render(detail.Acronym), detail.Name)
			fmt.Fprintf(out, "Legislature: %s\n", ordinal)
			fmt.Fprintf(out, "Seats:       %d\n", detail.Seats)
			if detail.Coalition != "" {
				fmt.Fprintf(out, "Coalition:   %s\n", detail.Coalition)
			}

			deputies := directory.SortByName(detail.Deputies)
			if len(deputies) > 0 {
				fmt.Fprintf(out, "\nDeputies (%d):\n", len(deputies))
				for _, deputy := range deputies {
					fmt.Fprintf(out, "  %-36s %s\n", truncateString(deputy.Name, 36), deputy.District)
				}
			}
			return nil
		},
	}

	legislatureFlag(cmd)
	return cmd
}

func deputiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deputies",
		Short: "Browse the deputy directory",
		Long: `Browse the deputy directory one page at a time.

Search ignores case and accents: "goncalves" matches "Gonçalves".

Example:
  hemiciclo deputies --party PS --district Lisboa
  hemiciclo deputies --query silva --page 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			party, _ := cmd.Flags().GetString("party")
			district, _ := cmd.Flags().GetString("district")
			search, _ := cmd.Flags().GetString("query")
			page, _ := cmd.Flags().GetInt("page")
			perPage, _ := cmd.Flags().GetInt("per-page")
			if perPage <= 0 {
				perPage = cfg.Display.PageSize
			}

			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}
			result, err := client.Deputies(cmd.Context(), api.DeputyQuery{
				Legislature: ordinal,
				Party:       party,
				District:    district,
				Search:      search,
				Page:        page,
				PerPage:     perPage,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}

			// The backend may ignore filters it does not support.
			filter := directory.Filter{Query: search, Party: party, District: district}
			deputies := filter.Apply(result.Items)

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, deputies)
			}

			if len(deputies) == 0 {
				fmt.Fprintln(out, "No deputies match.")
				return nil
			}

			fmt.Fprintf(out, "%-8s %-36s %-8s %s\n", "ID", "NAME", "PARTY", "DISTRICT")
			fmt.Fprintln(out, strings.Repeat("-", 72))
			for _, deputy := range deputies {
				fmt.Fprintf(out, "%-8s %-36s %s %s\n",
					deputy.ID,
					truncateString(deputy.Name, 36),
					palette.Style(deputy.Party).Render(fmt.Sprintf("%-8s", deputy.Party)),
					deputy.District,
				)
			}

			pager := directory.NewPager(result.Page, perPage, result.Total)
			fmt.Fprintf(out, "\nPage %d of %d (%d deputies)\n", pager.Page, pager.Pages(), pager.Total)
			return nil
		},
	}

	legislatureFlag(cmd)
	cmd.Flags().String("party", "", "Filter by party acronym")
	cmd.Flags().String("district", "", "Filter by electoral district")
	cmd.Flags().StringP("query", "q", "", "Search by name")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("per-page", 0, "Deputies per page (default from config)")
	return cmd
}

func deputyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deputy ID",
		Short: "Show a deputy and their mandates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			defer client.Close()

			deputy, err := client.Deputy(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, deputy)
			}

			status := "inactive"
			if deputy.Active {
				status = "active"
			}
			fmt.Fprintf(out, "%s (%s)\n", deputy.Name, deputy.ID)
			fmt.Fprintf(out, "Party:    %s\n", palette.Style(deputy.Party).Render(deputy.Party))
			fmt.Fprintf(out, "District: %s\n", deputy.District)
			fmt.Fprintf(out, "Status:   %s\n", status)

			if len(deputy.Mandates) > 0 {
				fmt.Fprintln(out, "\nMandates:")
				for _, mandate := range deputy.Mandates {
					fmt.Fprintf(out, "  %-6s %-8s %-20s %s - %s\n",
						mandate.Legislature, mandate.Party, mandate.District,
						formatDate(mandate.Start), formatDate(mandate.End))
				}
			}
			return nil
		},
	}
}

func districtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "districts",
		Short: "Group deputies by electoral district",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}
			deputies, err := allDeputies(cmd.Context(), client, ordinal)
			if err != nil {
				return err
			}

			groups := analysis.GroupByDistrict(deputies)
			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, groups)
			}

			for _, group := range groups {
				var seats []string
				for _, party := range sortedKeys(group.Parties) {
					seats = append(seats, fmt.Sprintf("%s %d", party, group.Parties[party]))
				}
				fmt.Fprintf(out, "%-20s %3d  %s\n", group.District, group.Seats, strings.Join(seats, ", "))
			}
			fmt.Fprintf(out, "\n%d district(s), %d deputies\n", len(groups), len(deputies))
			return nil
		},
	}

	legislatureFlag(cmd)
	return cmd
}

func coalitionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coalitions",
		Short: "List party coalitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}
			coalitions, err := client.Coalitions(cmd.Context(), ordinal)
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, coalitions)
			}
			if len(coalitions) == 0 {
				fmt.Fprintln(out, "No coalitions.")
				return nil
			}
			for _, coalition := range coalitions {
				fmt.Fprintf(out, "%-10s %-36s %s\n", coalition.Acronym, truncateString(coalition.Name, 36), strings.Join(coalition.Parties, " + "))
			}
			return nil
		},
	}

	legislatureFlag(cmd)
	return cmd
}

// allDeputies walks every page of the deputy directory.
func allDeputies(ctx context.Context, client *api.Client, ordinal string) ([]api.Deputy, error) {
	deputies, err := directory.AllDeputies(ctx, client, ordinal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", api.Describe(err), err)
	}
	return deputies, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
