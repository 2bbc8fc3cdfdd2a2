// Package datafile reads YAML or JSON files into values for named report
// sections.
package datafile

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/terassyi/coredump/internal/errors"
)

// Entry is a named section value read from a file.
type Entry struct {
	Name   string
	Source string
	Value  any
}

// ParseSpec splits a "name=file" flag value.
func ParseSpec(spec string) (name, file string, err error) {
	name, file, ok := strings.Cut(spec, "=")
	if !ok || name == "" || file == "" {
		return "", "", errors.NewDataError(name, spec, "invalid data flag", nil).
			WithHint("Use --data <name>=<file>, e.g. --data request=request.yaml")
	}
	return name, file, nil
}

// Load reads file and decodes it as YAML. JSON is accepted as a subset.
func Load(name, file string) (*Entry, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.NewDataError(name, file, "failed to read data file", err)
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.NewDataError(name, file, "failed to decode data file", err).
			WithHint("Data files must contain YAML or JSON.")
	}

	return &Entry{Name: name, Source: file, Value: v}, nil
}

// LoadSpecs parses and loads every "name=file" spec in order.
func LoadSpecs(specs []string) ([]*Entry, error) {
	entries := make([]*Entry, 0, len(specs))
	for _, spec := range specs {
		name, file, err := ParseSpec(spec)
		if err != nil {
			return nil, err
		}
		e, err := Load(name, file)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
