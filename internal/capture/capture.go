// Package capture turns Go errors and recovered panics into report error
// descriptors.
package capture

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/terassyi/coredump/internal/report"
)

// Coder is implemented by errors that carry a numeric code.
type Coder interface {
	Code() int
}

const maxDepth = 64

// Frame is a single call site.
type Frame struct {
	File     string
	Line     int
	Function string
}

// Location formats the frame as file(line).
func (f Frame) Location() string {
	return f.File + "(" + strconv.Itoa(f.Line) + ")"
}

// FromError describes err as a recoverable error. The location and trace
// start at the caller of FromError.
func FromError(err error) report.ErrorDescriptor {
	return describe(report.KindException, err, fmt.Sprint(err), callers(1))
}

// FromPanic describes a value returned by recover as a fault. It must be
// called from the deferred function that recovered; frames belonging to the
// panic machinery are dropped so the trace starts at the panicking call.
func FromPanic(v any) report.ErrorDescriptor {
	frames := panicFrames(callers(1))
	if err, ok := v.(error); ok {
		return describe(report.KindError, v, err.Error(), frames)
	}
	return describe(report.KindError, v, fmt.Sprint(v), frames)
}

func describe(kind report.Kind, v any, message string, frames []Frame) report.ErrorDescriptor {
	d := report.ErrorDescriptor{
		Kind:    kind,
		Class:   fmt.Sprintf("%T", v),
		Message: message,
		Trace:   Trace(frames),
	}
	if err, ok := v.(error); ok {
		d.Code = code(err)
	}
	if len(frames) > 0 {
		d.Location = frames[0].Location()
	}
	return d
}

func code(err error) int {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 0
}

// Trace formats frames one per line, numbered from the innermost call.
func Trace(frames []Frame) string {
	var sb strings.Builder
	for i, f := range frames {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "#%d %s: %s", i, f.Location(), f.Function)
	}
	return sb.String()
}

// callers returns the stack of the caller skip frames above callers' caller.
func callers(skip int) []Frame {
	pc := make([]uintptr, maxDepth)
	// +2 skips runtime.Callers and callers itself.
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pc[:n])
	var out []Frame
	for {
		f, more := frames.Next()
		out = append(out, Frame{File: f.File, Line: f.Line, Function: f.Function})
		if !more {
			break
		}
	}
	return out
}

func isRuntime(fn string) bool {
	return strings.HasPrefix(fn, "runtime.") || strings.HasPrefix(fn, "internal/runtime/")
}

// panicFrames drops everything up to and including runtime.gopanic and the
// runtime frames that raised it (panicmem, sigpanic, ...).
func panicFrames(frames []Frame) []Frame {
	for i, f := range frames {
		if f.Function != "runtime.gopanic" {
			continue
		}
		rest := frames[i+1:]
		for len(rest) > 0 && isRuntime(rest[0].Function) {
			rest = rest[1:]
		}
		return rest
	}
	return frames
}
