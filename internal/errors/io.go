//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "fmt"

// IOError represents a filesystem failure while persisting or reading dumps.
type IOError struct {
	Base Error `json:"error"`

	// Op is the failed operation (write, read, list, remove, lock).
	Op string `json:"op"`

	// Path is the file or directory the operation targeted.
	Path string `json:"path,omitempty"`
}

// NewWriteError creates an IOError for a failed dump write.
func NewWriteError(path string, cause error) *IOError {
	return &IOError{
		Base: Error{
			Category: CategoryIO,
			Code:     CodeWriteFailed,
			Message:  fmt.Sprintf("failed to write %s", path),
			Hint:     "Check that the parent directory exists and is writable.",
			Cause:    cause,
		},
		Op:   "write",
		Path: path,
	}
}

// NewReadError creates an IOError for a failed read, list or remove.
func NewReadError(op, path string, cause error) *IOError {
	return &IOError{
		Base: Error{
			Category: CategoryIO,
			Code:     CodeReadFailed,
			Message:  fmt.Sprintf("failed to %s %s", op, path),
			Cause:    cause,
		},
		Op:   op,
		Path: path,
	}
}

// NewLockError creates an IOError for a dump directory held by another process.
func NewLockError(lockFile string) *IOError {
	return &IOError{
		Base: Error{
			Category: CategoryIO,
			Code:     CodeLocked,
			Message:  "dump directory locked",
			Hint:     fmt.Sprintf("Wait for the other process to finish, or\nrun 'rm %s' if it's stale.", lockFile),
		},
		Op:   "lock",
		Path: lockFile,
	}
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *IOError) Is(target error) bool {
	t, ok := target.(*IOError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
