// Package config loads coredump settings from config.cue.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"cuelang.org/go/cue/load"
	"github.com/terassyi/coredump/internal/errors"
	"github.com/terassyi/coredump/internal/path"
)

// Default values
const (
	DefaultConfigDir = "~/.config/coredump"
	DefaultDumpDir   = "~/.local/state/coredump"
	DefaultKeep      = 20
	FileName         = "config.cue"
)

// Config represents coredump configuration.
type Config struct {
	// DumpDir is the default hint passed to the path resolver.
	DumpDir string `json:"dumpDir"`
	// Keep is how many dumps prune leaves in place.
	Keep int `json:"keep"`
	// ProcessEnv includes the process environment in captured dumps.
	ProcessEnv bool `json:"processEnv,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DumpDir: DefaultDumpDir,
		Keep:    DefaultKeep,
	}
}

// LoadConfig loads configuration from the config directory.
// Returns default config if config.cue doesn't exist or has no config block.
func LoadConfig(configDir string) (*Config, error) {
	dir, err := path.Expand(configDir)
	if err != nil {
		return nil, errors.NewConfigError(configDir, "failed to expand config directory", err)
	}
	configPath := filepath.Join(dir, FileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{FileName}, &load.Config{
		Dir: dir,
	})

	if len(instances) == 0 {
		return DefaultConfig(), nil
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, errors.NewConfigError(configPath, "failed to load config.cue", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if value.Err() != nil {
		return nil, errors.NewConfigError(configPath, "failed to build config.cue", value.Err())
	}

	configValue := value.LookupPath(cue.ParsePath("config"))
	if !configValue.Exists() {
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	jsonBytes, err := configValue.MarshalJSON()
	if err != nil {
		return nil, errors.NewConfigError(configPath, "failed to marshal config", err)
	}

	if err := json.Unmarshal(jsonBytes, cfg); err != nil {
		return nil, errors.NewConfigError(configPath, "failed to unmarshal config", err)
	}

	return cfg, nil
}

// ResolvedDumpDir returns DumpDir with ~ expanded.
func (c *Config) ResolvedDumpDir() (string, error) {
	return path.Expand(c.DumpDir)
}

// Paths resolves the dump directory and configDir, expanding ~ in both.
func (c *Config) Paths(configDir string) (*path.Paths, error) {
	cfgDir, err := path.Expand(configDir)
	if err != nil {
		return nil, errors.NewConfigError(configDir, "failed to expand config directory", err)
	}
	dumpDir, err := c.ResolvedDumpDir()
	if err != nil {
		return nil, errors.NewConfigError(cfgDir, "failed to expand dumpDir", err)
	}
	return path.New(path.WithConfigDir(cfgDir), path.WithDumpDir(dumpDir))
}

// ToCue generates CUE content from Config.
func (c *Config) ToCue() ([]byte, error) {
	ctx := cuecontext.New()
	v := ctx.Encode(map[string]any{
		"config": c,
	})
	if v.Err() != nil {
		return nil, errors.Wrap(errors.CategoryConfig, "failed to encode config", v.Err())
	}

	syn := v.Syntax()
	b, err := format.Node(syn)
	if err != nil {
		return nil, errors.Wrap(errors.CategoryConfig, "failed to format config", err)
	}

	return append([]byte("package coredump\n\n"), b...), nil
}
