// quantcore: fixed-income valuation, portfolio statistics and sensitivity curves.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seenimoa/quantcore/api"
	"github.com/seenimoa/quantcore/internal/config"
	"github.com/seenimoa/quantcore/internal/logging"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quantcore",
	Short: "Bond valuation, portfolio statistics and sensitivity curves",
	Long: `quantcore prices fixed-rate bonds, solves yields, measures duration and
convexity, computes return statistics and portfolio risk from price
histories, and generates price-yield, cash-flow and clean/dirty curves.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bondCmd)
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(curveCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quantcore %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		defer zap.ReplaceGlobals(logger)()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		api.Version = version
		logger.Info("starting quantcore API server",
			zap.String("addr", cfg.API.Addr()),
			zap.String("version", version))
		return api.NewServer(cfg, logger).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port override")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and where each setting comes from",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  quantcore — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:        %s (%s)\n", version, commit)
		fmt.Printf("  API Server:     %s\n", cfg.API.Addr())
		fmt.Printf("  Risk-free rate: %.2f%%\n", cfg.Valuation.RiskFreeRate*100)
		fmt.Printf("  Cache TTL:      %ds\n", cfg.Cache.TTL)
		fmt.Printf("  Logging:        %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Println()

		fmt.Println("  Settings:")
		for _, s := range config.Settings(cfg) {
			fmt.Printf("    %-32s %-10s %s\n", s.Key+":", s.Value, "("+string(s.Source)+")")
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// printJSON writes v to stdout when --json is set and reports whether it did.
func printJSON(cmd *cobra.Command, v any) (bool, error) {
	asJSON, _ := cmd.Flags().GetBool("json")
	if !asJSON {
		return false, nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}
