// Package report assembles diagnostic snapshots.
//
// A Report holds an optional error section, named sections added by the
// caller and the request/process environment, and renders them as a single
// text document:
//
//	==============================
//	 Exception
//	==============================
//
//	Class    : *fs.PathError
//	...
//
// Sections always render in the same order: the error first, then added
// sections in the order their names were first added, then the environment
// sources from $_SERVER to $_ENV.
package report

import (
	"strings"

	"github.com/terassyi/coredump/internal/report/dump"
)

// rule separates section headers from bodies.
var rule = strings.Repeat("=", 30)

// Section is one named block of a report.
type Section struct {
	Name  string
	Value Value
}

// Report is a diagnostic snapshot. It is not safe for concurrent use.
type Report struct {
	errSection *Section
	names      []string
	content    map[string]Value
	env        []Section
}

// Option configures a Report.
type Option func(*Report)

// WithError adds the error section.
func WithError(d ErrorDescriptor) Option {
	return func(r *Report) {
		r.errSection = &Section{Name: d.SectionName(), Value: ErrorValue(d)}
	}
}

// WithEnvironment sets the environment sources.
func WithEnvironment(env Environment) Option {
	return func(r *Report) {
		r.env = env.sections()
	}
}

// New creates a Report.
func New(opts ...Option) *Report {
	r := &Report{
		content: make(map[string]Value),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add stores value under name. Adding an existing name replaces its value
// but keeps its position. An ErrorDescriptor renders like the error section;
// anything else is dumped as structured data.
func (r *Report) Add(name string, value any) {
	if _, ok := r.content[name]; !ok {
		r.names = append(r.names, name)
	}
	switch v := value.(type) {
	case ErrorDescriptor:
		r.content[name] = ErrorValue(v)
	case *ErrorDescriptor:
		if v != nil {
			r.content[name] = ErrorValue(*v)
			return
		}
		r.content[name] = DataValue(value)
	default:
		r.content[name] = DataValue(value)
	}
}

// Sections returns the sections in render order.
func (r *Report) Sections() []Section {
	var out []Section
	if r.errSection != nil {
		out = append(out, *r.errSection)
	}
	for _, name := range r.names {
		out = append(out, Section{Name: name, Value: r.content[name]})
	}
	return append(out, r.env...)
}

// Render returns the report text. An empty report renders as "".
func (r *Report) Render() string {
	var sb strings.Builder
	for i, s := range r.Sections() {
		if i > 0 {
			sb.WriteString("\n")
		}
		s.render(&sb)
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (r *Report) String() string {
	return r.Render()
}

func (s Section) render(sb *strings.Builder) {
	sb.WriteString(rule + "\n")
	sb.WriteString(" " + s.Name + "\n")
	sb.WriteString(rule + "\n")
	sb.WriteString("\n")

	if d, ok := s.Value.Descriptor(); ok {
		d.render(sb)
		return
	}
	dump.Write(sb, s.Value.Data())
}
