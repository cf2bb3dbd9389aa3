package cmd

import (
	"os"

	"github.com/dmelnik/saveguard/internal/config"
	"github.com/dmelnik/saveguard/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective protection rules and config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		cls := buildClassifier()

		logging.Infof("Config file: %s", config.Path())
		if _, err := os.Stat(config.Path()); os.IsNotExist(err) {
			logging.Infof(" (not present, using defaults)")
		}
		logging.Infoln()

		logging.Infoln("\nProtected directory names:")
		for _, n := range cls.DirNames() {
			logging.Infof("  %s\n", n)
		}
		logging.Infoln("\nProtected extensions (json/dat only inside protected dirs):")
		for _, e := range cls.Extensions() {
			logging.Infof("  .%s\n", e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
