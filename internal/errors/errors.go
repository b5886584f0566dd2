package errors

import (
	stderrors "errors"
	"fmt"
)

// Operation kinds. Each one is a member of the tool's error taxonomy.
const (
	OpConfig     = "config"     // missing or empty credentials
	OpFetch      = "fetch"      // template clone failed
	OpConflict   = "conflict"   // project directory already exists
	OpFileSystem = "filesystem" // read, write or rename failed
)

// Sentinels for errors.Is. They match any OperationError of the same kind.
var (
	ErrConfiguration = &OperationError{Op: OpConfig}
	ErrFetch         = &OperationError{Op: OpFetch}
	ErrNameConflict  = &OperationError{Op: OpConflict}
	ErrFileSystem    = &OperationError{Op: OpFileSystem}
)

// OperationError represents an error that occurred during a scaffold step
type OperationError struct {
	Op  string // The operation kind
	Err error  // The underlying error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Err
}

// New creates a new OperationError
func New(op string, err error) *OperationError {
	return &OperationError{
		Op:  op,
		Err: err,
	}
}

// Newf creates a new OperationError from a format string. %w verbs are honored.
func Newf(op, format string, args ...any) *OperationError {
	return New(op, fmt.Errorf(format, args...))
}

// Is implements error matching for OperationError
func (e *OperationError) Is(target error) bool {
	t, ok := target.(*OperationError)
	if !ok {
		return false
	}
	return e.Op == t.Op
}

// Kind returns the operation of the first OperationError in err's chain,
// or "" when there is none.
func Kind(err error) string {
	var opErr *OperationError
	if stderrors.As(err, &opErr) {
		return opErr.Op
	}
	return ""
}

// Label maps an operation kind to the name shown to users.
func Label(op string) string {
	switch op {
	case OpConfig:
		return "ConfigurationError"
	case OpFetch:
		return "FetchError"
	case OpConflict:
		return "NameConflictError"
	case OpFileSystem:
		return "FileSystemError"
	default:
		return "Error"
	}
}
