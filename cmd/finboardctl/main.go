package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"finboard/internal/backend"
	"finboard/internal/cli"
	"finboard/internal/config"
	"finboard/internal/log"
)

var (
	version = "dev"
	cfg     *config.Config
	logger  *log.Logger

	rootCmd = &cobra.Command{
		Use:   "finboardctl",
		Short: "Terminal client for the finboard finance dashboard",
		Long: `finboardctl reads the same finance API as the dashboard and prints the
summary, the recent activity feed and budget progress in the terminal.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().String("backend", "",
		fmt.Sprintf("finance backend (%s); defaults to FINANCE_BACKEND", strings.Join(backend.GetBackendTypeStrings(), ", ")))
	rootCmd.PersistentFlags().String("api-url", "", "finance API base URL; defaults to FINANCE_API_URL")
	rootCmd.PersistentFlags().String("token", "", "bearer token; defaults to FINANCE_API_TOKEN")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(feedCmd())
	rootCmd.AddCommand(budgetsCmd())
	rootCmd.AddCommand(alertsWatchCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads the environment and lets flags override it.
func initConfig(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	cfg = config.Load()

	flags := cmd.Flags()
	if v, _ := flags.GetString("backend"); v != "" {
		cfg.FinanceBackend = v
	}
	if v, _ := flags.GetString("api-url"); v != "" {
		cfg.FinanceAPIURL = v
	}
	if v, _ := flags.GetString("token"); v != "" {
		cfg.FinanceAPIToken = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	// Progress and logs share the terminal; keep the logs quiet by default.
	if os.Getenv("LOG_LEVEL") == "" && cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	logger = cli.SetupLogger(cfg, "finboardctl")
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "finboardctl", version)
		},
	}
}
