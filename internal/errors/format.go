//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors for CLI output.
type Formatter struct {
	NoColor bool
	Writer  io.Writer

	errorColor    *color.Color
	codeColor     *color.Color
	resourceColor *color.Color
	hintColor     *color.Color
	dimColor      *color.Color
}

// NewFormatter creates a new Formatter.
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	if noColor {
		color.NoColor = true
	}

	return &Formatter{
		NoColor:       noColor,
		Writer:        w,
		errorColor:    color.New(color.FgRed, color.Bold),
		codeColor:     color.New(color.FgRed),
		resourceColor: color.New(color.FgCyan),
		hintColor:     color.New(color.FgGreen),
		dimColor:      color.New(color.FgHiBlack),
	}
}

// formatErrorHeader writes the error header with code.
// Format: "Error [E301]: message" or "Error: message" if no code.
func (f *Formatter) formatErrorHeader(sb *strings.Builder, code Code, message string) {
	sb.WriteString(f.errorColor.Sprint("Error"))
	if code != "" {
		sb.WriteString(" ")
		sb.WriteString(f.codeColor.Sprintf("[%s]", code))
	}
	sb.WriteString(f.errorColor.Sprint(": "))
	sb.WriteString(message)
	sb.WriteString("\n")
}

// Format formats an error for CLI display.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	var ioErr *IOError
	var configErr *ConfigError
	var dataErr *DataError
	var baseErr *Error

	switch {
	case errors.As(err, &ioErr):
		f.formatIOError(&sb, ioErr)
	case errors.As(err, &configErr):
		f.formatConfigError(&sb, configErr)
	case errors.As(err, &dataErr):
		f.formatDataError(&sb, dataErr)
	case errors.As(err, &baseErr):
		f.formatBaseError(&sb, baseErr)
	default:
		sb.WriteString(f.errorColor.Sprint("Error: "))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Print writes the formatted error to the formatter's writer.
func (f *Formatter) Print(err error) {
	if f.Writer == nil || err == nil {
		return
	}
	_, _ = io.WriteString(f.Writer, f.Format(err))
}

// FormatJSON formats an error as JSON.
func (f *Formatter) FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return nil, nil
	}

	var ioErr *IOError
	var configErr *ConfigError
	var dataErr *DataError
	var baseErr *Error

	switch {
	case errors.As(err, &ioErr):
		return json.MarshalIndent(ioErr, "", "  ")
	case errors.As(err, &configErr):
		return json.MarshalIndent(configErr, "", "  ")
	case errors.As(err, &dataErr):
		return json.MarshalIndent(dataErr, "", "  ")
	case errors.As(err, &baseErr):
		return json.MarshalIndent(baseErr, "", "  ")
	default:
		return json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
	}
}

func (f *Formatter) formatIOError(sb *strings.Builder, err *IOError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.formatField(sb, "Op:   ", err.Op, false)
	f.formatField(sb, "Path: ", err.Path, true)
	f.formatCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatConfigError(sb *strings.Builder, err *ConfigError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.formatField(sb, "File: ", err.File, true)
	f.formatCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatDataError(sb *strings.Builder, err *DataError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.formatField(sb, "Section: ", err.Name, true)
	f.formatField(sb, "Source:  ", err.Source, false)
	f.formatCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatBaseError(sb *strings.Builder, err *Error) {
	f.formatErrorHeader(sb, err.Code, err.Message)
	f.formatCause(sb, err.Cause)
	f.formatHint(sb, err)
}

func (f *Formatter) formatField(sb *strings.Builder, label, value string, highlight bool) {
	if value == "" {
		return
	}
	sb.WriteString("  ")
	sb.WriteString(f.dimColor.Sprint(label))
	if highlight {
		sb.WriteString(f.resourceColor.Sprint(value))
	} else {
		sb.WriteString(value)
	}
	sb.WriteString("\n")
}

func (f *Formatter) formatCause(sb *strings.Builder, cause error) {
	if cause == nil {
		return
	}
	sb.WriteString("\n  ")
	sb.WriteString(f.dimColor.Sprint("Cause: "))
	sb.WriteString(cause.Error())
	sb.WriteString("\n")
}

func (f *Formatter) formatHint(sb *strings.Builder, err *Error) {
	if err.Hint == "" {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(f.hintColor.Sprint("Hint: "))
	// Handle multi-line hints
	lines := strings.Split(err.Hint, "\n")
	sb.WriteString(lines[0])
	sb.WriteString("\n")
	for _, line := range lines[1:] {
		sb.WriteString("      ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
