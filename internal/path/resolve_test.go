package path

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terassyi/coredump/internal/errors"
	"pgregory.net/rapid"
)

var tokenPattern = `[0-9a-f]{40}`

func TestResolve(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		hint    string
		cwd     string
		pattern string
	}{
		{
			name:    "empty hint uses cwd",
			hint:    "",
			cwd:     "/home/u",
			pattern: `^/home/u/` + tokenPattern + `\.coredump$`,
		},
		{
			name:    "directory hint",
			hint:    tmpDir,
			cwd:     "/unused",
			pattern: `^` + regexp.QuoteMeta(tmpDir) + `/` + tokenPattern + `\.coredump$`,
		},
		{
			name:    "directory hint with trailing separators",
			hint:    tmpDir + "//",
			cwd:     "/unused",
			pattern: `^` + regexp.QuoteMeta(tmpDir) + `/` + tokenPattern + `\.coredump$`,
		},
		{
			name:    "file hint without placeholder",
			hint:    "/tmp/core.dump",
			cwd:     "/unused",
			pattern: `^/tmp/core\.dump$`,
		},
		{
			name:    "file hint with placeholder",
			hint:    "/tmp/core.#.dump",
			cwd:     "/unused",
			pattern: `^/tmp/core\.` + tokenPattern + `\.dump$`,
		},
		{
			name:    "missing directory is a file template",
			hint:    filepath.Join(tmpDir, "missing", "#"),
			cwd:     "/unused",
			pattern: `^` + regexp.QuoteMeta(filepath.Join(tmpDir, "missing")) + `/` + tokenPattern + `$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.hint, tt.cwd)
			assert.Regexp(t, tt.pattern, got)
		})
	}
}

func TestResolve_SameTokenForEveryPlaceholder(t *testing.T) {
	got := Resolve("/tmp/#/core-#.dump", "/")

	re := regexp.MustCompile(`^/tmp/(` + tokenPattern + `)/core-(` + tokenPattern + `)\.dump$`)
	m := re.FindStringSubmatch(got)
	require.Len(t, m, 3)
	assert.Equal(t, m[1], m[2])
}

func TestResolve_Unique(t *testing.T) {
	a := Resolve("", "/home/u")
	b := Resolve("", "/home/u")
	assert.NotEqual(t, a, b)
}

func TestToken(t *testing.T) {
	tok := Token()
	assert.Len(t, tok, TokenLength)
	assert.Regexp(t, `^`+tokenPattern+`$`, tok)
}

func TestResolve_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dir := "/" + rapid.StringMatching(`[a-z]{1,8}(/[a-z]{1,8}){0,3}`).Draw(t, "dir")
		name := rapid.StringMatching(`[a-z.#-]{1,12}`).Draw(t, "name")
		hint := dir + "/" + name + ".dump"

		got := Resolve(hint, "/unused")

		if !strings.Contains(hint, Placeholder) {
			if got != hint {
				t.Fatalf("template without placeholder changed: %q -> %q", hint, got)
			}
			return
		}

		if strings.Contains(got, Placeholder) {
			t.Fatalf("placeholder left in %q", got)
		}
		want := len(hint) + strings.Count(hint, Placeholder)*(TokenLength-1)
		if len(got) != want {
			t.Fatalf("len(%q) = %d, want %d", got, len(got), want)
		}
	})
}

func TestWrite(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates file", func(t *testing.T) {
		p := filepath.Join(tmpDir, "new.coredump")

		require.NoError(t, Write(p, "hello\n"))

		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})

	t.Run("truncates existing file", func(t *testing.T) {
		p := filepath.Join(tmpDir, "existing.coredump")
		require.NoError(t, os.WriteFile(p, []byte("a much longer previous content"), 0644))

		require.NoError(t, Write(p, "short"))

		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "short", string(data))
	})

	t.Run("missing parent directory", func(t *testing.T) {
		p := filepath.Join(tmpDir, "missing", "x.coredump")

		err := Write(p, "x")

		var ioErr *errors.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "write", ioErr.Op)
		assert.Equal(t, p, ioErr.Path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
