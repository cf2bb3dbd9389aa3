package cmd

import (
	"os"
	"path/filepath"

	"github.com/dmelnik/saveguard/internal/logging"
	"github.com/dmelnik/saveguard/internal/protect"
	"github.com/dmelnik/saveguard/internal/updater"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <game-exe|game-dir>",
	Short: "List the protected paths detected in an installation",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		if fi, err := os.Stat(root); err == nil && !fi.IsDir() {
			root = filepath.Dir(root)
		}

		cls := buildClassifier()
		protected, err := cls.Scan(root, protect.ScanOptions{
			MaxDepth: scanDepth,
			Ignore:   []string{updater.BackupDirName},
		})
		if err != nil {
			return err
		}

		if len(protected) == 0 {
			logging.Infof("No protected directories found in %s\n", root)
			return nil
		}
		logging.Infof("Protected directories in %s:\n", root)
		for _, rel := range protected {
			logging.Infof("  %s\n", rel)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
