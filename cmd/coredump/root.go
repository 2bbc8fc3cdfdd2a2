package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/terassyi/coredump/internal/config"
	"github.com/terassyi/coredump/internal/path"
)

const outputJSON = "json"

var (
	configDir   string
	dumpDir     string
	noColorFlag bool
	errorFormat string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "coredump",
	Short: "Capture diagnostic snapshots as readable text dumps",
	Long: `Coredump captures a diagnostic snapshot: an optional error,
named data sections and the process environment, rendered as
one human-readable text report and saved under a unique name.

  coredump capture --error "db timeout" --data req=req.yaml
  coredump list
  coredump prune --keep 10`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColorFlag {
			color.NoColor = true
		}
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.DefaultConfigDir, "Configuration directory")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dir", "", "Dump directory or file template (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&errorFormat, "error-format", "text", "Error output format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		versionCmd,
		initCmd,
		captureCmd,
		renderCmd,
		listCmd,
		pruneCmd,
	)
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	if dumpDir != "" {
		cfg.DumpDir = dumpDir
	}
	return cfg, nil
}

// loadPaths loads the configuration and resolves its directories.
func loadPaths() (*config.Config, *path.Paths, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	paths, err := cfg.Paths(configDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, paths, nil
}
