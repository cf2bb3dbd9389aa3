package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmelnik/saveguard/internal/config"
	"github.com/dmelnik/saveguard/internal/logging"
	"github.com/dmelnik/saveguard/internal/protect"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	logFile   string
	scanDepth int

	// Loaded once in the persistent pre-run; commands use it to widen the
	// classifier with user-configured names and extensions.
	userConfig = &config.Config{}
)

var rootCmd = &cobra.Command{
	Use:           "saveguard",
	Short:         "Update game installations without losing saves",
	Long:          "Overlay a new version of a game (folder or zip) onto its existing installation while preserving saves, configuration and screenshots.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Apply config-file defaults for flags not explicitly set.
		c, err := config.Load()
		if err != nil {
			return err
		}
		userConfig = c
		if c.Verbose != nil && !cmd.Flags().Changed("verbose") {
			verbose = *c.Verbose
		}
		if c.LogFile != nil && !cmd.Flags().Changed("log-file") {
			logFile = *c.LogFile
		}
		if c.ScanDepth != nil && !cmd.Flags().Changed("scan-depth") {
			scanDepth = *c.ScanDepth
		}

		logging.SetVerbose(verbose)
		if err := logging.SetOutputFile(logFile); err != nil {
			return fmt.Errorf("opening log file %q: %w", logFile, err)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	closeErr := logging.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", closeErr)
		if err == nil {
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			if cmd, _, findErr := rootCmd.Find(os.Args[1:]); findErr == nil && cmd != nil {
				_ = cmd.Usage()
			} else {
				_ = rootCmd.Usage()
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return wrapUsageError(err)
	})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write command output to a log file")
	rootCmd.PersistentFlags().IntVar(&scanDepth, "scan-depth", 0, "How many directory levels to scan for protected paths (default 4)")
}

// buildClassifier returns the built-in classifier widened with the user's
// configured extra names and extensions.
func buildClassifier() *protect.Classifier {
	cls := protect.NewClassifier()
	cls.AddDirNames(userConfig.ProtectDirs...)
	cls.AddExtensions(userConfig.ProtectExts...)
	return cls
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func wrapUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if validate == nil {
			return nil
		}
		if err := validate(cmd, args); err != nil {
			return wrapUsageError(err)
		}
		return nil
	}
}

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}

	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command ")
}
