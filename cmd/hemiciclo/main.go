package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/config"
	"github.com/coolbeans/hemiciclo/pkg/legislature"
)

var version = "0.1.0"

// Global state shared by subcommands, set up in the root PersistentPreRunE.
var (
	logger     *zap.Logger
	cfg        *config.Config
	configPath string
	apiURL     string
	logFile    string
	verbose    bool
	jsonOutput bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hemiciclo",
		Short: "Parliamentary transparency dashboard",
		Long: `Hemiciclo browses a parliamentary transparency backend from the terminal.

It lists legislatures, parties and deputies, groups seats by electoral
district, measures party voting cohesion and agreement, and reports
attendance and disclosure metrics.

When --legislature is omitted, the current legislature is used: the most
recent one without an end date, or the most recent one overall.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.API.BaseURL = apiURL
			}

			logger, err = buildLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Configuration file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(legislaturesCmd())
	rootCmd.AddCommand(partiesCmd())
	rootCmd.AddCommand(partyCmd())
	rootCmd.AddCommand(deputiesCmd())
	rootCmd.AddCommand(deputyCmd())
	rootCmd.AddCommand(districtsCmd())
	rootCmd.AddCommand(coalitionsCmd())
	rootCmd.AddCommand(cohesionCmd())
	rootCmd.AddCommand(agreementCmd())
	rootCmd.AddCommand(transparencyCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(configCmd())

	return rootCmd
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	if logFile != "" {
		zapConfig.OutputPaths = []string{logFile}
		zapConfig.ErrorOutputPaths = []string{logFile}
	}
	return zapConfig.Build()
}

// newClient builds an API client from the loaded configuration.
func newClient() *api.Client {
	clientConfig := cfg.ClientConfig()
	clientConfig.Logger = logger
	return api.NewClient(clientConfig)
}

// legislatureFlag registers the --legislature flag shared by most commands.
func legislatureFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("legislature", "l", "", "Legislature ordinal, e.g. XVII (default: current)")
}

// resolveLegislature returns the legislature named by the flag or the
// configuration, falling back to the backend's default legislature.
func resolveLegislature(cmd *cobra.Command, client *api.Client) (string, error) {
	selected, _ := cmd.Flags().GetString("legislature")
	if selected == "" {
		selected = cfg.Display.Legislature
	}
	if selected != "" {
		return legislature.NormalizeOrdinal(selected), nil
	}

	records, err := client.Legislatures(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("failed to resolve legislature: %s: %w", api.Describe(err), err)
	}

	resolution := legislature.Resolve(records, "", func(ordinal string) {
		logger.Info("defaulted to legislature", zap.String("legislature", ordinal))
	})
	resolution.Notify()

	if resolution.Selected() == "" {
		return "", fmt.Errorf("failed to resolve legislature: %w", api.ErrEmpty)
	}
	return resolution.Selected(), nil
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
