// Package store manages a directory of saved core dumps.
package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/terassyi/coredump/internal/errors"
	"github.com/terassyi/coredump/internal/path"
)

// Extension is the file extension of saved dumps.
const Extension = ".coredump"

// Dump describes a saved dump file.
type Dump struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// List returns the dumps in dir, newest first. A missing directory has no dumps.
func List(dir string) ([]Dump, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewReadError("list", dir, err)
	}

	var dumps []Dump
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed while listing
		}
		dumps = append(dumps, Dump{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(dumps, func(i, j int) bool {
		if !dumps[i].ModTime.Equal(dumps[j].ModTime) {
			return dumps[i].ModTime.After(dumps[j].ModTime)
		}
		return dumps[i].Name < dumps[j].Name
	})

	return dumps, nil
}

// Prune removes all but the keep most recent dumps in dir and returns the
// removed paths. It holds an advisory lock on dir while doing so.
func Prune(dir string, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	lockFile := path.LockFile(dir)
	fl := flock.New(lockFile)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.NewReadError("lock", lockFile, err)
	}
	if !locked {
		return nil, errors.NewLockError(lockFile)
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			slog.Warn("failed to release lock", "path", lockFile, "error", err)
		}
	}()

	dumps, err := List(dir)
	if err != nil {
		return nil, err
	}

	if len(dumps) <= keep {
		return nil, nil
	}

	var removed []string
	for _, d := range dumps[keep:] {
		if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
			return removed, errors.NewReadError("remove", d.Path, err)
		}
		slog.Debug("removed core dump", "path", d.Path)
		removed = append(removed, d.Path)
	}

	return removed, nil
}
