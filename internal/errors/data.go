//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// DataError represents an unusable data input for a named section,
// such as a malformed --data flag or an unreadable YAML file.
type DataError struct {
	Base Error `json:"error"`

	// Name is the section name the data was meant for.
	Name string `json:"name,omitempty"`

	// Source is the file or flag value the data came from.
	Source string `json:"source,omitempty"`
}

// NewDataError creates a DataError.
func NewDataError(name, source, message string, cause error) *DataError {
	return &DataError{
		Base: Error{
			Category: CategoryData,
			Code:     CodeDataInvalid,
			Message:  message,
			Cause:    cause,
		},
		Name:   name,
		Source: source,
	}
}

// WithHint sets the hint.
func (e *DataError) WithHint(hint string) *DataError {
	e.Base.Hint = hint
	return e
}

// Error implements the error interface.
func (e *DataError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *DataError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *DataError) Is(target error) bool {
	t, ok := target.(*DataError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
