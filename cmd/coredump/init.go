package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/terassyi/coredump/internal/config"
	"github.com/terassyi/coredump/internal/errors"
	"github.com/terassyi/coredump/internal/path"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config.cue and the dump directory",
	Long: `Create the configuration directory with a default config.cue and the
default dump directory.

An existing config.cue is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config.cue with defaults")
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfgDir, err := path.Expand(configDir)
	if err != nil {
		return errors.NewConfigError(configDir, "failed to expand config directory", err)
	}
	if err := path.EnsureDir(cfgDir); err != nil {
		return errors.NewWriteError(cfgDir, err)
	}

	configFile := filepath.Join(cfgDir, config.FileName)
	if _, err := os.Stat(configFile); err == nil && !forceInit {
		cmd.Printf("Config exists: %s (use --force to overwrite)\n", configFile)
	} else {
		content, err := config.DefaultConfig().ToCue()
		if err != nil {
			return err
		}
		if err := os.WriteFile(configFile, content, 0644); err != nil {
			return errors.NewWriteError(configFile, err)
		}
		cmd.Printf("Created: %s\n", configFile)
	}

	// Load what was just written so --dir and an existing config apply.
	_, paths, err := loadPaths()
	if err != nil {
		return err
	}
	if err := path.EnsureDir(paths.DumpDir()); err != nil {
		return errors.NewWriteError(paths.DumpDir(), err)
	}
	cmd.Printf("Dump directory: %s\n", paths.DumpDir())
	return nil
}
