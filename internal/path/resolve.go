package path

import (
	"crypto/sha1" //nolint:gosec // used for a unique name, not for security
	"encoding/hex"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/terassyi/coredump/internal/errors"
)

const (
	// Placeholder is replaced with a fresh Token wherever it appears in a path.
	Placeholder = "#"

	// DefaultFileName is appended when the hint is empty or a directory.
	DefaultFileName = Placeholder + ".coredump"

	// TokenLength is the number of hex characters in a Token.
	TokenLength = 2 * sha1.Size
)

// Resolve returns the path a dump should be written to.
//
// An empty hint resolves to DefaultFileName inside cwd, and a hint naming an
// existing directory resolves to DefaultFileName inside that directory. Any
// other hint is taken as a file path template. Every Placeholder in the result
// is then replaced with a single freshly generated Token; a template without a
// Placeholder is returned unchanged.
func Resolve(hint, cwd string) string {
	sep := string(os.PathSeparator)

	var p string
	switch {
	case hint == "":
		p = cwd + sep + DefaultFileName
	case isDir(hint):
		p = strings.TrimRight(hint, sep) + sep + DefaultFileName
	default:
		p = hint
	}

	if !strings.Contains(p, Placeholder) {
		return p
	}
	return strings.ReplaceAll(p, Placeholder, Token())
}

// Token returns a 40 character lowercase hex string derived from a random
// value and the current time.
func Token() string {
	seed := strconv.FormatUint(rand.Uint64(), 10) + strconv.FormatInt(time.Now().UnixNano(), 10)
	sum := sha1.Sum([]byte(seed)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// Write stores content as the full contents of the file at path, creating or
// truncating it. Failures are returned as *errors.IOError.
func Write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.NewWriteError(path, err)
	}
	return nil
}

// isDir reports whether p names an existing directory. A failed stat counts
// as not a directory.
func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
