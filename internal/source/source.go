// Package source collects report environments from HTTP requests and the
// running process.
package source

import (
	"errors"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/terassyi/coredump/internal/report"
)

// DefaultMaxMemory bounds the memory used to parse multipart bodies.
const DefaultMaxMemory = 32 << 20

type options struct {
	session    map[string]any
	processEnv bool
	maxMemory  int64
}

// Option configures FromRequest.
type Option func(*options)

// WithSession supplies the session state. A nil map leaves $_SESSION out.
func WithSession(session map[string]any) Option {
	return func(o *options) {
		o.session = session
	}
}

// WithProcessEnv includes the process environment as $_ENV.
func WithProcessEnv() Option {
	return func(o *options) {
		o.processEnv = true
	}
}

// WithMaxMemory sets the multipart parsing memory limit.
func WithMaxMemory(n int64) Option {
	return func(o *options) {
		o.maxMemory = n
	}
}

// FromRequest builds an Environment from r. Server metadata, query
// parameters, cookies and the combined request parameters are always
// present; form fields and files only for form-encoded and multipart bodies.
// Parsing the body consumes it.
func FromRequest(r *http.Request, opts ...Option) report.Environment {
	o := &options{maxMemory: DefaultMaxMemory}
	for _, opt := range opts {
		opt(o)
	}

	env := report.Environment{
		Server:  Server(r),
		Get:     values(r.URL.Query()),
		Cookie:  cookies(r),
		Session: o.session,
	}

	if isForm(r) {
		env.Post, env.Files = form(r, o.maxMemory)
	}

	env.Request = make(map[string]any, len(env.Get)+len(env.Post)+len(env.Cookie))
	maps.Copy(env.Request, env.Get)
	maps.Copy(env.Request, env.Post)
	maps.Copy(env.Request, env.Cookie)

	if o.processEnv {
		env.Env = Process()
	}
	return env
}

// Server returns CGI-style metadata about r.
func Server(r *http.Request) map[string]any {
	uri := r.RequestURI
	if uri == "" {
		uri = r.URL.RequestURI()
	}
	m := map[string]any{
		"REQUEST_METHOD":  r.Method,
		"REQUEST_URI":     uri,
		"SERVER_PROTOCOL": r.Proto,
		"HTTP_HOST":       r.Host,
		"REMOTE_ADDR":     r.RemoteAddr,
		"SCRIPT_NAME":     r.URL.Path,
		"QUERY_STRING":    r.URL.RawQuery,
		"HTTPS":           r.TLS != nil,
	}
	for name, vals := range r.Header {
		key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		m[key] = strings.Join(vals, ", ")
	}
	return m
}

// Process returns the process environment variables.
func Process() map[string]any {
	environ := os.Environ()
	m := make(map[string]any, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		m[k] = v
	}
	return m
}

func isForm(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

func form(r *http.Request, maxMemory int64) (post, files map[string]any) {
	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		// A partially parsed form is still worth reporting.
		if r.PostForm == nil {
			return map[string]any{}, nil
		}
	}

	post = values(r.PostForm)
	if r.MultipartForm == nil {
		return post, nil
	}

	files = make(map[string]any, len(r.MultipartForm.File))
	for field, headers := range r.MultipartForm.File {
		list := make([]any, 0, len(headers))
		for _, fh := range headers {
			list = append(list, map[string]any{
				"name": fh.Filename,
				"type": fh.Header.Get("Content-Type"),
				"size": fh.Size,
			})
		}
		if len(list) == 1 {
			files[field] = list[0]
		} else {
			files[field] = list
		}
	}
	return post, files
}

func values(v url.Values) map[string]any {
	m := make(map[string]any, len(v))
	for k, vals := range v {
		if len(vals) == 1 {
			m[k] = vals[0]
			continue
		}
		list := make([]any, len(vals))
		for i, s := range vals {
			list[i] = s
		}
		m[k] = list
	}
	return m
}

func cookies(r *http.Request) map[string]any {
	cs := r.Cookies()
	m := make(map[string]any, len(cs))
	for _, c := range cs {
		m[c.Name] = c.Value
	}
	return m
}
