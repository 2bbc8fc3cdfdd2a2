package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terassyi/coredump/internal/errors"
	"github.com/terassyi/coredump/internal/path"
)

// writeDump creates a dump file with the given age.
func writeDump(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(name), 0644))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(p, mtime, mtime))
	return p
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	writeDump(t, dir, "old.coredump", 3*time.Hour)
	writeDump(t, dir, "new.coredump", time.Minute)
	writeDump(t, dir, "mid.coredump", time.Hour)
	writeDump(t, dir, "notes.txt", 0)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.coredump"), 0755))

	dumps, err := List(dir)
	require.NoError(t, err)

	require.Len(t, dumps, 3)
	assert.Equal(t, "new.coredump", dumps[0].Name)
	assert.Equal(t, "mid.coredump", dumps[1].Name)
	assert.Equal(t, "old.coredump", dumps[2].Name)
	assert.Equal(t, filepath.Join(dir, "new.coredump"), dumps[0].Path)
	assert.Equal(t, int64(len("new.coredump")), dumps[0].Size)
}

func TestList_MissingDir(t *testing.T) {
	dumps, err := List(filepath.Join(t.TempDir(), "nope"))

	require.NoError(t, err)
	assert.Empty(t, dumps)
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name        string
		keep        int
		wantRemoved []string
		wantKept    []string
	}{
		{
			name:        "keep two",
			keep:        2,
			wantRemoved: []string{"c.coredump", "d.coredump"},
			wantKept:    []string{"a.coredump", "b.coredump"},
		},
		{
			name:     "keep more than present",
			keep:     10,
			wantKept: []string{"a.coredump", "b.coredump", "c.coredump", "d.coredump"},
		},
		{
			name:        "keep none",
			keep:        0,
			wantRemoved: []string{"a.coredump", "b.coredump", "c.coredump", "d.coredump"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for i, name := range []string{"a.coredump", "b.coredump", "c.coredump", "d.coredump"} {
				writeDump(t, dir, name, time.Duration(i+1)*time.Hour)
			}

			removed, err := Prune(dir, tt.keep)
			require.NoError(t, err)

			var removedNames []string
			for _, p := range removed {
				removedNames = append(removedNames, filepath.Base(p))
			}
			assert.Equal(t, tt.wantRemoved, removedNames)

			dumps, err := List(dir)
			require.NoError(t, err)
			var kept []string
			for _, d := range dumps {
				kept = append(kept, d.Name)
			}
			assert.Equal(t, tt.wantKept, kept)
		})
	}
}

func TestPrune_Locked(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "a.coredump", time.Hour)

	other := flock.New(path.LockFile(dir))
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	_, err = Prune(dir, 0)

	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, errors.CodeLocked, ioErr.Base.Code)
	assert.FileExists(t, filepath.Join(dir, "a.coredump"))
}

func TestPrune_MissingDir(t *testing.T) {
	removed, err := Prune(filepath.Join(t.TempDir(), "nope"), 1)

	require.NoError(t, err)
	assert.Empty(t, removed)
}
