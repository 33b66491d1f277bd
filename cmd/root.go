package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/logging"
)

var (
	// Global flags
	debug     bool
	scanPath  string
	jsonOut   bool
	workers   int
	engine    string
	logFormat string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "diskaudit",
	Short: "Find out where your disk space went",
	Long: `diskaudit - Find out where your disk space went.

Measures the usual suspects on a developer machine (caches, node_modules,
virtualenvs, ML model files, Docker, Xcode, logs, Trash, Downloads) and
recommends what is safe to delete. Nothing is ever deleted for you.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation runs the full report.
		return runScan(cmd)
	},
}

// Execute runs the root command. An interrupt cancels the running scan;
// the report is not printed.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	defaults := config.DefaultScanConfig()

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&debug, "debug", false, "Show detailed operation logs")
	pf.StringVarP(&scanPath, "path", "p", "~", "Directory to scan for projects and discovered items")
	pf.BoolVar(&jsonOut, "json", false, "Output the report as JSON")
	pf.IntVarP(&workers, "workers", "w", defaults.Workers, "Categories scanned in parallel (1 = sequential)")
	pf.StringVar(&engine, "engine", string(defaults.Engine), "Measurement engine: native or exec (du/find)")
	pf.StringVar(&logFormat, "log-format", "console", "Log format: console or json")

	// Register all subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := logging.DefaultConfig()
	if debug {
		cfg.Level = "debug"
	}
	switch strings.ToLower(logFormat) {
	case "console", "":
	case "json":
		cfg.Format = "json"
	default:
		return fmt.Errorf("unknown log format %q", logFormat)
	}
	return logging.Init(cfg)
}

// scanConfig merges defaults, environment overrides and flags, in that
// order of precedence (flags win).
func scanConfig(cmd *cobra.Command) (config.ScanConfig, error) {
	cfg, err := config.FromEnv(config.DefaultScanConfig())
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("engine") {
		cfg.Engine = config.Engine(strings.ToLower(engine))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
