package report

import (
	"reflect"
	"strconv"
	"strings"
)

// Kind classifies a captured error.
type Kind string

const (
	// KindException marks a recoverable application error.
	KindException Kind = "Exception"
	// KindError marks a runtime-level fault such as a panic.
	KindError Kind = "Error"
)

// ErrorDescriptor is an immutable snapshot of an error's identifying fields.
type ErrorDescriptor struct {
	Kind     Kind
	Class    string
	Message  string
	Code     int
	Location string
	Trace    string
}

// SectionName returns the name of the report section holding the descriptor.
func (d ErrorDescriptor) SectionName() string {
	if d.Kind == KindError {
		return string(KindError)
	}
	return string(KindException)
}

func (d ErrorDescriptor) render(sb *strings.Builder) {
	sb.WriteString("Class    : " + d.Class + "\n")
	sb.WriteString("Message  : " + d.Message + "\n")
	sb.WriteString("Code     : " + strconv.Itoa(d.Code) + "\n")
	sb.WriteString("Location : " + d.Location + "\n")
	sb.WriteString("\n")
	sb.WriteString(d.Trace)
	sb.WriteString("\n")
}

// Value is the payload of a Section: either an ErrorDescriptor or
// structured data.
type Value struct {
	err  *ErrorDescriptor
	data any
}

// ErrorValue wraps an error descriptor.
func ErrorValue(d ErrorDescriptor) Value {
	return Value{err: &d}
}

// DataValue wraps structured data. The data is deep-copied.
func DataValue(data any) Value {
	return Value{data: clone(data)}
}

// Descriptor returns the error descriptor and true if v holds one.
func (v Value) Descriptor() (ErrorDescriptor, bool) {
	if v.err == nil {
		return ErrorDescriptor{}, false
	}
	return *v.err, true
}

// Data returns the structured data held by v, or nil for an error value.
func (v Value) Data() any {
	return v.data
}

// clone returns a deep copy of maps, slices, arrays and pointed-to values in
// data so later changes by the caller are not reflected in the report.
func clone(data any) any {
	if data == nil {
		return nil
	}
	c := cloneValue(reflect.ValueOf(data), 0)
	if !c.IsValid() || !c.CanInterface() {
		return data
	}
	return c.Interface()
}

const maxCloneDepth = 64

func cloneValue(v reflect.Value, depth int) reflect.Value {
	if !v.IsValid() || depth > maxCloneDepth {
		return v
	}

	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneValue(iter.Value(), depth+1))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(cloneValue(v.Index(i), depth+1))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(cloneValue(v.Index(i), depth+1))
		}
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		inner := cloneValue(v.Elem(), depth+1)
		out := reflect.New(v.Type()).Elem()
		out.Set(inner)
		return out
	case reflect.Pointer:
		if v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneValue(v.Elem(), depth+1))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := range v.NumField() {
			if f := out.Field(i); f.CanSet() {
				f.Set(cloneValue(v.Field(i), depth+1))
			}
		}
		return out
	default:
		return v
	}
}
