package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
	"github.com/lakshaymaurya-felt/diskaudit/internal/logging"
	"github.com/lakshaymaurya-felt/diskaudit/internal/recommend"
	"github.com/lakshaymaurya-felt/diskaudit/internal/report"
	"github.com/lakshaymaurya-felt/diskaudit/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:     "scan",
	Aliases: []string{"report"},
	Short:   "Audit disk usage and print recommendations",
	Long:    "Measure every tracked category, then print the disk overview, category breakdown, largest projects and cleanup recommendations.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd)
	},
}

func runScan(cmd *cobra.Command) error {
	in, err := collect(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return report.WriteJSON(out, report.BuildJSON(in.Snapshot, in.Recommendations, in.Platform))
	}
	_, err = io.WriteString(out, report.Render(in))
	return err
}

// collect runs one scan of --path and derives its recommendations.
func collect(cmd *cobra.Command) (report.Input, error) {
	cfg, err := scanConfig(cmd)
	if err != nil {
		return report.Input{}, err
	}

	paths := config.DefaultPaths()
	root := paths.ExpandHome(scanPath)
	cats := config.Categories(paths, cfg)
	log := logging.Named("scan")

	log.Debug("starting scan",
		zap.String("root", root),
		zap.String("engine", string(cfg.Engine)),
		zap.Int("workers", cfg.Workers))

	run := func(ctx context.Context, progress scan.ProgressFunc) (scan.Snapshot, error) {
		opts := []scan.Option{scan.WithLogger(log), scan.WithCategories(cats)}
		if progress != nil {
			opts = append(opts, scan.WithProgress(progress))
		}
		return scan.New(cfg, paths, opts...).Scan(ctx, root)
	}

	ctx := cmd.Context()
	var snap scan.Snapshot
	if showSpinner() {
		snap, err = report.RunWithSpinner(ctx, os.Stderr, paths.Tilde(root), run)
	} else {
		snap, err = run(ctx, nil)
	}
	if err != nil {
		return report.Input{}, fmt.Errorf("scan %s: %w", root, err)
	}

	return report.Input{
		Snapshot:        snap,
		Categories:      cats,
		Recommendations: recommend.Generate(snap, cats),
		Paths:           paths,
		Platform:        core.PlatformString(ctx),
	}, nil
}

// showSpinner reports whether an interactive progress line can be drawn.
// JSON output and debug logs both suppress it.
func showSpinner() bool {
	if jsonOut || debug {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
