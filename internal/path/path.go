package path

import (
	"os"
	"path/filepath"
	"strings"
)

// Default path suffixes (relative to home directory)
const (
	defaultDumpSuffix   = ".local/state/coredump"
	defaultConfigSuffix = ".config/coredump"
)

// Paths holds the configurable directories used by the coredump CLI.
type Paths struct {
	dumpDir   string
	configDir string
}

// Option is a functional option for configuring Paths.
type Option func(*Paths)

// WithDumpDir sets a custom dump directory.
func WithDumpDir(dir string) Option {
	return func(p *Paths) {
		p.dumpDir = dir
	}
}

// WithConfigDir sets a custom config directory.
func WithConfigDir(dir string) Option {
	return func(p *Paths) {
		p.configDir = dir
	}
}

// New creates a new Paths with optional custom configuration.
func New(opts ...Option) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	p := &Paths{
		dumpDir:   filepath.Join(home, defaultDumpSuffix),
		configDir: filepath.Join(home, defaultConfigSuffix),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// DumpDir returns the directory saved dumps go to by default.
func (p *Paths) DumpDir() string {
	return p.dumpDir
}

// ConfigDir returns the configuration directory.
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// LockFile returns the lock file path guarding housekeeping in dir.
func LockFile(dir string) string {
	return filepath.Join(dir, ".coredump.lock")
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Expand expands ~ to the home directory.
func Expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}

	if path == "~" {
		return os.UserHomeDir()
	}

	return path, nil
}
