package main

import (
	"github.com/spf13/cobra"
	"github.com/terassyi/coredump/internal/store"
)

var pruneKeep int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old dumps, keeping the most recent ones",
	Long: `Remove old dumps from the dump directory.

The number kept defaults to the keep config setting.

Examples:
  coredump prune             # keep the configured number of dumps
  coredump prune --keep 3    # keep the three newest dumps`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1, "Number of dumps to keep (default from config)")
}

func runPrune(cmd *cobra.Command, _ []string) error {
	cfg, paths, err := loadPaths()
	if err != nil {
		return err
	}
	keep := cfg.Keep
	if pruneKeep >= 0 {
		keep = pruneKeep
	}

	removed, err := store.Prune(paths.DumpDir(), keep)
	if err != nil {
		return err
	}

	for _, p := range removed {
		cmd.Printf("removed %s\n", p)
	}
	if len(removed) == 0 {
		cmd.Println("Nothing to prune.")
	}
	return nil
}
