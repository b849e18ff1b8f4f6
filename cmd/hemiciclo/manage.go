package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/config"
	"github.com/coolbeans/hemiciclo/pkg/legislature"
	"github.com/coolbeans/hemiciclo/pkg/snapshot"
	"github.com/coolbeans/hemiciclo/pkg/tui"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save a legislature to a local SQLite database",
		Long: `Fetch legislatures, parties, the full deputy directory and transparency
records for one legislature and store them in a SQLite database.

Each run adds a new snapshot; earlier snapshots are kept.

Example:
  hemiciclo snapshot --out parlamento.db
  hemiciclo snapshot --legislature XVI`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				outPath = filepath.Join(cfg.Snapshots.Directory, "hemiciclo.db")
			}

			client := newClient()
			defer client.Close()

			ordinal, err := resolveLegislature(cmd, client)
			if err != nil {
				return err
			}

			snap := snapshot.Snapshot{Legislature: ordinal}
			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.Go(func() error {
				records, err := client.Legislatures(ctx)
				if err != nil {
					return fmt.Errorf("legislatures: %s: %w", api.Describe(err), err)
				}
				snap.Legislatures = records
				return nil
			})
			eg.Go(func() error {
				parties, err := client.Parties(ctx, ordinal)
				if err != nil {
					return fmt.Errorf("parties: %s: %w", api.Describe(err), err)
				}
				snap.Parties = parties
				return nil
			})
			eg.Go(func() error {
				deputies, err := allDeputies(ctx, client, ordinal)
				if err != nil {
					return fmt.Errorf("deputies: %w", err)
				}
				snap.Deputies = deputies
				return nil
			})
			eg.Go(func() error {
				records, err := client.Transparency(ctx, ordinal)
				if err != nil {
					if errors.Is(err, api.ErrEmpty) {
						return nil
					}
					return fmt.Errorf("transparency: %s: %w", api.Describe(err), err)
				}
				snap.Transparency = records
				return nil
			})
			if err := eg.Wait(); err != nil {
				return fmt.Errorf("failed to fetch snapshot data: %w", err)
			}

			store, err := snapshot.Open(outPath)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := store.Write(cmd.Context(), snap)
			if err != nil {
				return err
			}
			logger.Info("snapshot written",
				zap.String("id", id),
				zap.String("legislature", ordinal),
				zap.String("path", outPath))

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, map[string]any{"id": id, "path": outPath, "rows": counts})
			}

			fmt.Fprintf(out, "Snapshot %s of legislature %s written to %s\n", id, ordinal, outPath)
			tables := make([]string, 0, len(counts))
			for table := range counts {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				fmt.Fprintf(out, "  %-14s %6d rows\n", table, counts[table])
			}
			return nil
		},
	}

	legislatureFlag(cmd)
	cmd.Flags().StringP("out", "o", "", "Database file (default: hemiciclo.db in the snapshots directory)")
	return cmd
}

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the interactive terminal dashboard with tabs for parties, deputies,
electoral districts and transparency.

Press l to pick a legislature, tab to switch sections and ? for help.
Logs are discarded unless --log-file is given, since the dashboard owns the
terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, _ := cmd.Flags().GetString("legislature")
			if selected == "" {
				selected = cfg.Display.Legislature
			}
			tab, _ := cmd.Flags().GetString("tab")

			dashboardLogger := logger
			if logFile == "" {
				dashboardLogger = zap.NewNop()
			}

			clientConfig := cfg.ClientConfig()
			clientConfig.Logger = dashboardLogger
			client := api.NewClient(clientConfig)
			defer client.Close()

			return tui.Run(cmd.Context(), client, tui.Options{
				Legislature: legislature.NormalizeOrdinal(selected),
				PageSize:    cfg.Display.PageSize,
				Tab:         tab,
				Logger:      dashboardLogger,
			})
		},
	}

	legislatureFlag(cmd)
	cmd.Flags().String("tab", "", "Initial tab: partidos, deputados, circulos, transparencia")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintf(out, "# %s\n%s", configPath, data)
			return nil
		},
	})

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				if _, err := os.Stat(configPath); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
				}
			}
			if err := config.DefaultConfig().Save(configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}
