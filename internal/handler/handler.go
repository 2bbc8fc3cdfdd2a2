// Package handler provides net/http middleware that writes a core dump when
// a handler panics.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/terassyi/coredump/internal/capture"
	"github.com/terassyi/coredump/internal/report"
	"github.com/terassyi/coredump/internal/source"
)

// SessionFunc returns the session state of a request, or nil if it has none.
type SessionFunc func(*http.Request) map[string]any

type options struct {
	hint       string
	logger     *slog.Logger
	session    SessionFunc
	processEnv bool
	maxMemory  int64
	onSave     func(path string)
}

// Option configures Recover.
type Option func(*options)

// WithHint sets where dumps are saved. See path.Resolve.
func WithHint(hint string) Option {
	return func(o *options) {
		o.hint = hint
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSession sets how session state is looked up.
func WithSession(fn SessionFunc) Option {
	return func(o *options) {
		o.session = fn
	}
}

// WithProcessEnv includes the process environment in dumps.
func WithProcessEnv() Option {
	return func(o *options) {
		o.processEnv = true
	}
}

// WithMaxMemory bounds the memory used to parse multipart bodies into the
// dump. Defaults to source.DefaultMaxMemory.
func WithMaxMemory(n int64) Option {
	return func(o *options) {
		o.maxMemory = n
	}
}

// WithSaveHook registers a function called with the path of every saved dump.
func WithSaveHook(fn func(path string)) Option {
	return func(o *options) {
		o.onSave = fn
	}
}

// Recover wraps next so that a panic is captured in a core dump and answered
// with 500 Internal Server Error. http.ErrAbortHandler is re-raised untouched.
func Recover(next http.Handler, opts ...Option) http.Handler {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}

			d := capture.FromPanic(v)
			o.save(d, r)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

func (o *options) save(d report.ErrorDescriptor, r *http.Request) {
	var srcOpts []source.Option
	if o.session != nil {
		srcOpts = append(srcOpts, source.WithSession(o.session(r)))
	}
	if o.processEnv {
		srcOpts = append(srcOpts, source.WithProcessEnv())
	}
	if o.maxMemory > 0 {
		srcOpts = append(srcOpts, source.WithMaxMemory(o.maxMemory))
	}

	rep := report.New(
		report.WithError(d),
		report.WithEnvironment(source.FromRequest(r, srcOpts...)),
	)

	p, err := rep.Save(o.hint)
	if err != nil {
		o.logger.Error("failed to save core dump", "error", err, "panic", d.Message)
		return
	}

	o.logger.Error("handler panicked", "panic", d.Message, "location", d.Location, "dump", p)
	if o.onSave != nil {
		o.onSave(p)
	}
}
