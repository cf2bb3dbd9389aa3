package cmd

import (
	"context"

	"github.com/dmelnik/saveguard/internal/logging"
	"github.com/dmelnik/saveguard/internal/updater"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview <game-exe> <new-source>",
	Short: "Show what an update would change, without writing anything",
	Long: `Report which files an update would overwrite or create and which
directories would be preserved. For zip sources only the raw archive entry
count is reported; the archive is not extracted.`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		outcome, err := updater.Preview(context.Background(), updater.Options{
			GameExe:    args[0],
			SourcePath: args[1],
			Classifier: buildClassifier(),
			ScanDepth:  scanDepth,
		})
		if err != nil {
			return err
		}
		if previewJSON {
			return printJSON(outcome)
		}
		return printPreview(outcome)
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print the preview as JSON")
	rootCmd.AddCommand(previewCmd)
}

func printPreview(p *updater.PreviewOutcome) error {
	logging.Infof("Preview for %s\n", p.GameDir)
	if p.SourceIsArchive {
		if p.ArchiveEntryCount != nil {
			logging.Infof("  Zip source: %d entries (not extracted for preview)\n", *p.ArchiveEntryCount)
		} else {
			logging.Infoln("  Zip source: could not read entry count")
		}
	} else {
		logging.Infof("  %d files would be overwritten, %d created\n", p.FilesToUpdate, p.NewFiles)
	}
	if len(p.ProtectedDirs) > 0 {
		logging.Infof("  %s\n", color.GreenString("Preserved: %s", joinRel(p.ProtectedDirs)))
	} else {
		logging.Infoln("  No protected directories detected")
	}
	return nil
}
