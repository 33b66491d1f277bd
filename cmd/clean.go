package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/diskaudit/internal/recommend"
	"github.com/lakshaymaurya-felt/diskaudit/internal/report"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Print safe cleanup commands",
	Long: `Scan, then print the shell commands for every recommendation that is
safe to run without review. Nothing is deleted; copy the commands you want.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := collect(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOut {
			return report.WriteJSON(out, report.BuildJSON(in.Snapshot, recommend.SafeOnly(in.Recommendations), in.Platform))
		}
		_, err = io.WriteString(out, report.RenderClean(in.Recommendations))
		return err
	},
}
