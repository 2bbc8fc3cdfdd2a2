package report

import (
	"log/slog"
	"os"

	"github.com/terassyi/coredump/internal/errors"
	"github.com/terassyi/coredump/internal/path"
)

// Save writes the rendered report to the path resolved from hint against the
// current working directory and returns that path. See path.Resolve for how
// hints are interpreted.
func (r *Report) Save(hint string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.NewReadError("getwd", ".", err)
	}
	return r.SaveIn(hint, cwd)
}

// SaveIn is like Save but resolves an empty hint against cwd.
func (r *Report) SaveIn(hint, cwd string) (string, error) {
	p := path.Resolve(hint, cwd)
	if err := path.Write(p, r.Render()); err != nil {
		return "", err
	}
	slog.Debug("core dump saved", "path", p)
	return p, nil
}
