// Package dump renders arbitrary Go values as an indented key/value listing.
//
// The layout follows the classic print_r convention:
//
//	Array
//	(
//	    [name] => gopher
//	    [tags] => Array
//	        (
//	            [0] => a
//	            [1] => b
//	        )
//
//	)
//
// Maps are listed with sorted keys, slices and arrays by position, and
// structs in field order under a "<Type> Object" header. Output is
// deterministic for a given value.
package dump

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// MaxDepth bounds nesting. Deeper values (usually cycles) print as Recursion.
const MaxDepth = 64

// Recursion is printed in place of values nested deeper than MaxDepth.
const Recursion = "*RECURSION*"

const indentWidth = 8

var (
	errorType    = reflect.TypeFor[error]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
)

// String returns the dump of v.
func String(v any) string {
	var sb strings.Builder
	Write(&sb, v)
	return sb.String()
}

// Write appends the dump of v to sb.
func Write(sb *strings.Builder, v any) {
	p := printer{sb: sb}
	p.value(reflect.ValueOf(v), 0)
}

type printer struct {
	sb *strings.Builder
}

type entry struct {
	key   string
	typ   string
	num   int64
	isNum bool
	value reflect.Value
}

func (p *printer) value(v reflect.Value, depth int) {
	if depth > MaxDepth {
		p.sb.WriteString(Recursion)
		return
	}

	v = indirect(v)
	if !v.IsValid() {
		return
	}

	if s, ok := textual(v); ok {
		p.sb.WriteString(s)
		return
	}

	switch v.Kind() {
	case reflect.Map:
		p.block("Array", mapEntries(v), depth)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			p.sb.Write(v.Bytes())
			return
		}
		p.block("Array", indexEntries(v), depth)
	case reflect.Struct:
		p.block(v.Type().String()+" Object", fieldEntries(v), depth)
	default:
		p.sb.WriteString(scalar(v))
	}
}

func (p *printer) block(header string, entries []entry, depth int) {
	pad := strings.Repeat(" ", depth*indentWidth)

	p.sb.WriteString(header)
	p.sb.WriteString("\n")
	p.sb.WriteString(pad)
	p.sb.WriteString("(\n")
	for _, e := range entries {
		p.sb.WriteString(pad)
		p.sb.WriteString("    [")
		p.sb.WriteString(e.key)
		p.sb.WriteString("] => ")
		p.value(e.value, depth+1)
		p.sb.WriteString("\n")
	}
	p.sb.WriteString(pad)
	p.sb.WriteString(")\n")
}

// indirect follows pointers and interfaces. A nil pointer yields an invalid value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		if v.Kind() == reflect.Pointer && v.CanInterface() && implementsText(v.Type()) {
			return v
		}
		v = v.Elem()
	}
	return v
}

func implementsText(t reflect.Type) bool {
	return t.Implements(errorType) || t.Implements(stringerType)
}

// textual renders values that describe themselves through error or fmt.Stringer.
func textual(v reflect.Value) (string, bool) {
	if !v.CanInterface() {
		return "", false
	}
	switch x := v.Interface().(type) {
	case error:
		return x.Error(), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}

func scalar(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		if v.Bool() {
			return "1"
		}
		return ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	default:
		return v.Type().String()
	}
}

func mapEntries(v reflect.Value) []entry {
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := indirect(iter.Key())
		e := entry{value: iter.Value()}
		if k.IsValid() {
			e.typ = k.Type().String()
		}
		switch {
		case !k.IsValid():
		case k.CanInt():
			e.num, e.isNum = k.Int(), true
			e.key = strconv.FormatInt(e.num, 10)
		case k.CanUint() && k.Uint() <= math.MaxInt64:
			e.num, e.isNum = int64(k.Uint()), true
			e.key = strconv.FormatInt(e.num, 10)
		default:
			e.key = keyText(k, 0)
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, compareEntries)
	return entries
}

// compareEntries orders integer keys numerically ahead of all other keys,
// which sort by text. Keys with equal text are ordered by type and then by
// the dump of their value, so the result never depends on map iteration.
func compareEntries(a, b entry) int {
	switch {
	case a.isNum && b.isNum:
		if c := cmp.Compare(a.num, b.num); c != 0 {
			return c
		}
	case a.isNum:
		return -1
	case b.isNum:
		return 1
	default:
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(a.typ, b.typ); c != 0 {
		return c
	}
	return cmp.Compare(render(a.value), render(b.value))
}

func render(v reflect.Value) string {
	var sb strings.Builder
	p := printer{sb: &sb}
	p.value(v, 0)
	return sb.String()
}

// keyText renders a map key on a single line. Struct and array keys list
// their elements in braces and brackets.
func keyText(v reflect.Value, depth int) string {
	if depth > MaxDepth {
		return Recursion
	}
	v = indirect(v)
	if !v.IsValid() {
		return ""
	}
	if s, ok := textual(v); ok {
		return s
	}

	switch v.Kind() {
	case reflect.Struct:
		parts := make([]string, v.NumField())
		for i := range parts {
			parts[i] = keyText(v.Field(i), depth+1)
		}
		return "{" + strings.Join(parts, " ") + "}"
	case reflect.Array:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = keyText(v.Index(i), depth+1)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%s(%#x)", v.Type(), v.Pointer())
	default:
		return scalar(v)
	}
}

func indexEntries(v reflect.Value) []entry {
	entries := make([]entry, v.Len())
	for i := range entries {
		entries[i] = entry{key: strconv.Itoa(i), value: v.Index(i)}
	}
	return entries
}

func fieldEntries(v reflect.Value) []entry {
	t := v.Type()
	entries := make([]entry, 0, t.NumField())
	for i := range t.NumField() {
		entries = append(entries, entry{key: t.Field(i).Name, value: v.Field(i)})
	}
	return entries
}
