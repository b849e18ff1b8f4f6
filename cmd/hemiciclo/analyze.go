package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coolbeans/hemiciclo/pkg/analysis"
	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/dashboard"
	"github.com/coolbeans/hemiciclo/pkg/legislature"
	"github.com/coolbeans/hemiciclo/pkg/palette"
	"github.com/coolbeans/hemiciclo/pkg/report"
)

func cohesionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cohesion",
		Short: "Measure how consistently a party votes together",
		Long: `Measure party voting cohesion: the share of a party's present deputies
that voted with the party majority, averaged over roll-call votes.

Without --party, every party is listed. With --party, the month-by-month
trend and the party's majority positions are shown.

Example:
  hemiciclo cohesion
  hemiciclo cohesion --party PS --legislature XVI`,
		RunE: func(cmd *cobra.Command, args []string) error {
			party, _ := cmd.Flags().GetString("party")
			party = strings.ToUpper(strings.TrimSpace(party))

			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}
			votes, err := client.Votes(cmd.Context(), ordinal, party)
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}
			logger.Debug("loaded votes", zap.String("legislature", ordinal), zap.Int("count", len(votes)))

			out := cmd.OutOrStdout()
			if party == "" {
				var rows []report.CohesionRow
				for _, acronym := range analysis.BuildAgreementMatrix(votes).Parties {
					rows = append(rows, report.CohesionRow{Party: acronym, Cohesion: analysis.PartyCohesion(votes, acronym)})
				}
				sort.SliceStable(rows, func(i, j int) bool { return rows[i].Cohesion > rows[j].Cohesion })
				if jsonOutput {
					return printJSON(out, rows)
				}
				fmt.Fprintf(out, "Party cohesion, legislature %s (%d votes)\n\n", ordinal, len(votes))
				for _, row := range rows {
					fmt.Fprintf(out, "%s %6.1f%%\n", palette.Style(row.Party).Render(fmt.Sprintf("%-8s", row.Party)), 100*row.Cohesion)
				}
				return nil
			}

			cohesion := analysis.PartyCohesion(votes, party)
			monthly := analysis.MonthlyCohesion(votes, party)
			breakdown := analysis.PositionBreakdown(votes, party)

			if jsonOutput {
				return printJSON(out, map[string]any{
					"partido":     party,
					"legislatura": ordinal,
					"coesao":      cohesion,
					"mensal":      monthly,
					"posicoes":    breakdown,
				})
			}

			fmt.Fprintf(out, "%s cohesion in legislature %s: %.1f%%\n", party, ordinal, 100*cohesion)

			if len(monthly) > 0 {
				fmt.Fprintln(out, "\nBy month:")
				for _, point := range monthly {
					bar := strings.Repeat("█", int(point.Cohesion*20+0.5))
					fmt.Fprintf(out, "  %s %6.1f%% %-20s %d vote(s)\n", point.Month, 100*point.Cohesion, bar, point.Votes)
				}
			}

			fmt.Fprintln(out, "\nMajority position:")
			for _, position := range api.Positions {
				label := palette.PositionLabel(position)
				fmt.Fprintf(out, "  %s %d\n", palette.PositionStyle(position).Render(fmt.Sprintf("%-12s", label)), breakdown[position])
			}
			return nil
		},
	}

	legislatureFlag(cmd)
	cmd.Flags().StringP("party", "p", "", "Party acronym")
	return cmd
}

func agreementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agreement",
		Short: "Compare how often parties vote alike",
		Long: `Compare every pair of parties: the share of roll-call votes, among those
where both had deputies present, on which their majority positions matched.

Example:
  hemiciclo agreement
  hemiciclo agreement --format csv > agreement.csv
  hemiciclo agreement --pairs 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			pairs, _ := cmd.Flags().GetInt("pairs")
			if jsonOutput {
				format = "json"
			}

			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}
			votes, err := client.Votes(cmd.Context(), ordinal, "")
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}

			matrix := analysis.BuildAgreementMatrix(votes)
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				data, err := matrix.ToJSON()
				if err != nil {
					return fmt.Errorf("failed to encode matrix: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "csv":
				fmt.Fprint(out, matrix.ToCSV())
			case "table", "":
				fmt.Fprintf(out, "Party agreement, legislature %s (%d votes)\n\n", ordinal, len(votes))
				fmt.Fprint(out, matrix.FormatTable())
				if pairs > 0 {
					ranked := matrix.Pairs()
					if pairs < len(ranked) {
						ranked = ranked[:pairs]
					}
					fmt.Fprintln(out, "\nMost aligned:")
					for _, pair := range ranked {
						fmt.Fprintf(out, "  %-8s %-8s %5.1f%%  (%d votes)\n", pair.A, pair.B, 100*pair.Rate, pair.Shared)
					}
				}
			default:
				return fmt.Errorf("unknown format %q (use table, csv or json)", format)
			}
			return nil
		},
	}

	legislatureFlag(cmd)
	cmd.Flags().String("format", "table", "Output format: table, csv, json")
	cmd.Flags().Int("pairs", 0, "Also list the N most aligned party pairs")
	return cmd
}

func transparencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transparency",
		Short: "Report attendance and disclosure metrics",
		Long: `Report deputy attendance, parliamentary activity and interest declaration
compliance, aggregated per party.

Example:
  hemiciclo transparency
  hemiciclo transparency --top 5 --with-cohesion --render
  hemiciclo transparency --markdown --output report.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			topN, _ := cmd.Flags().GetInt("top")
			withCohesion, _ := cmd.Flags().GetBool("with-cohesion")
			asMarkdown, _ := cmd.Flags().GetBool("markdown")
			render, _ := cmd.Flags().GetBool("render")
			outputPath, _ := cmd.Flags().GetString("output")

			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}
			records, err := client.Transparency(cmd.Context(), ordinal)
			if err != nil {
				return fmt.Errorf("%s: %w", api.Describe(err), err)
			}

			var votes []api.Vote
			if withCohesion {
				votes, err = client.Votes(cmd.Context(), ordinal, "")
				if err != nil {
					logger.Warn("cohesion unavailable", zap.String("reason", api.Describe(err)))
				}
			}

			transparencyReport := report.Build(ordinal, records, votes, topN)
			out := cmd.OutOrStdout()

			if outputPath != "" {
				if err := os.WriteFile(outputPath, []byte(transparencyReport.ToMarkdown()), 0644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Fprintf(out, "Report written to %s\n", outputPath)
				return nil
			}

			switch {
			case jsonOutput:
				return printJSON(out, transparencyReport)
			case render:
				rendered, err := report.Render(transparencyReport.ToMarkdown(), cfg.Display.Theme, 0)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			case asMarkdown:
				fmt.Fprint(out, transparencyReport.ToMarkdown())
				return nil
			}

			fmt.Fprintf(out, "Legislature %s: %d deputies, attendance %.1f%%\n\n",
				ordinal, transparencyReport.Deputies, 100*transparencyReport.Attendance)
			fmt.Fprintf(out, "%-8s %5s %10s %12s %10s %12s\n", "PARTY", "MPS", "ATTEND", "SPEECH/MP", "QUEST/MP", "DECLARED")
			fmt.Fprintln(out, strings.Repeat("-", 62))
			for _, metrics := range transparencyReport.Parties {
				fmt.Fprintf(out, "%s %5d %9.1f%% %12.1f %10.1f %11.0f%%\n",
					palette.Style(metrics.Party).Render(fmt.Sprintf("%-8s", metrics.Party)),
					metrics.Deputies,
					100*metrics.Attendance,
					metrics.InterventionsPerMP,
					metrics.QuestionsPerMP,
					100*metrics.DeclarationCompliance,
				)
			}

			if len(transparencyReport.Top) > 0 {
				fmt.Fprintln(out, "\nHighest attendance:")
				for i, record := range transparencyReport.Top {
					fmt.Fprintf(out, "  %2d. %-36s %-8s %5.1f%%\n", i+1, truncateString(record.Name, 36), record.Party, 100*analysis.AttendanceRate(record))
				}
			}

			if len(transparencyReport.Cohesion) > 0 {
				fmt.Fprintln(out, "\nVoting cohesion:")
				for _, row := range transparencyReport.Cohesion {
					fmt.Fprintf(out, "  %-8s %5.1f%%\n", row.Party, 100*row.Cohesion)
				}
			}
			return nil
		},
	}

	legislatureFlag(cmd)
	cmd.Flags().Int("top", report.DefaultTopN, "Number of deputies in the attendance ranking")
	cmd.Flags().Bool("with-cohesion", false, "Include party voting cohesion")
	cmd.Flags().Bool("markdown", false, "Print the report as Markdown")
	cmd.Flags().Bool("render", false, "Render the Markdown report for the terminal")
	cmd.Flags().StringP("output", "o", "", "Write the Markdown report to a file")
	return cmd
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard overview for a legislature",
		Long: `Show the dashboard overview: legislatures, parties, coalitions and
transparency. Sections are fetched in parallel and a failing section is
reported without hiding the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, _ := cmd.Flags().GetString("legislature")
			if selected == "" {
				selected = cfg.Display.Legislature
			}

			client := newClient()
			defer client.Close()

			summarizer := &dashboard.Summarizer{
				Source: client,
				Logger: logger,
				OnDefault: func(ordinal string) {
					logger.Info("defaulted to legislature", zap.String("legislature", ordinal))
				},
			}
			summary := summarizer.Summarize(cmd.Context(), legislature.NormalizeOrdinal(selected))

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, summary)
			}

			fmt.Fprintf(out, "Legislature: %s\n", orDash(summary.Legislature))
			if summary.Legislatures.IsError() {
				fmt.Fprintf(out, "  legislatures: %s\n", summary.Legislatures.Message)
			} else {
				fmt.Fprintf(out, "  %d legislature(s) available\n", len(summary.Legislatures.Data))
			}

			fmt.Fprintln(out, "\nParties:")
			if summary.Parties.IsError() {
				fmt.Fprintf(out, "  %s\n", summary.Parties.Message)
			} else {
				for _, party := range summary.Parties.Data {
					fmt.Fprintf(out, "  %s %3d\n", palette.Style(party.Acronym).Render(fmt.Sprintf("%-8s", party.Acronym)), party.Seats)
				}
			}

			fmt.Fprintln(out, "\nCoalitions:")
			if summary.Coalitions.IsError() {
				fmt.Fprintf(out, "  %s\n", summary.Coalitions.Message)
			} else {
				for _, coalition := range summary.Coalitions.Data {
					fmt.Fprintf(out, "  %-10s %s\n", coalition.Acronym, strings.Join(coalition.Parties, " + "))
				}
			}

			fmt.Fprintln(out, "\nTransparency:")
			if summary.Transparency.IsError() {
				fmt.Fprintf(out, "  %s\n", summary.Transparency.Message)
			} else {
				metrics := report.Build(summary.Legislature, summary.Transparency.Data, nil, 0)
				fmt.Fprintf(out, "  %d deputies, attendance %.1f%%\n", metrics.Deputies, 100*metrics.Attendance)
			}
			return nil
		},
	}

	legislatureFlag(cmd)
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
