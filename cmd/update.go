package cmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dmelnik/saveguard/internal/logging"
	"github.com/dmelnik/saveguard/internal/updater"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	dryRun     bool
	jsonOut    bool
	noProgress bool
)

var updateCmd = &cobra.Command{
	Use:   "update <game-exe> <new-source>",
	Short: "Merge a new version (folder or zip) over an installation, preserving user data",
	Long: `Overlay the new version at <new-source> onto the installation whose main
executable is <game-exe>. Directories that look like user data (saves,
configs, screenshots) are backed up into ` + updater.BackupDirName + ` before the
merge and restored on top afterwards, so their content is never changed by
an update. The backup directory is left in place as a manual safety net.`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := updater.Options{
			GameExe:    args[0],
			SourcePath: args[1],
			Classifier: buildClassifier(),
			ScanDepth:  scanDepth,
		}

		if dryRun {
			preview, err := updater.Preview(context.Background(), opts)
			if err != nil {
				return err
			}
			return printPreview(preview)
		}

		var bar *progressbar.ProgressBar
		if !noProgress && !jsonOut {
			opts.OnProgress = func(p updater.Progress) {
				if bar == nil {
					bar = progressbar.Default(p.Total, "updating")
				}
				_ = bar.Set64(p.Completed)
			}
		}

		outcome, err := updater.Run(context.Background(), opts)
		if err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Finish()
		}

		if jsonOut {
			return printJSON(outcome)
		}
		printOutcome(outcome)
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without modifying anything")
	updateCmd.Flags().BoolVar(&jsonOut, "json", false, "Print the outcome as JSON")
	updateCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	rootCmd.AddCommand(updateCmd)
}

func printOutcome(o *updater.MergeOutcome) {
	logging.Infof("\n%s\n", color.GreenString("Update complete: %d files updated, %d protected files kept", o.FilesUpdated, o.FilesSkipped))
	if o.FilesFailed > 0 {
		logging.Infof("  %s\n", color.RedString("%d files failed to copy", o.FilesFailed))
	}
	if len(o.ProtectedDirs) > 0 {
		logging.Infof("  Protected: %s\n", joinRel(o.ProtectedDirs))
		logging.Infof("  Backup kept at %s\n", o.BackupDir)
	}
	for _, w := range o.Warnings {
		logging.Warnf("%s\n", color.YellowString(w))
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	logging.Infof("%s\n", data)
	return nil
}

func joinRel(paths []string) string {
	return strings.Join(paths, ", ")
}
