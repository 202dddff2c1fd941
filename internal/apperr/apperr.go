// Package apperr implements the uniform error-kind handling called for by
// the redesign guidance: the original mixed exit(1) on file-open failure,
// fprintf(stderr)+null-return on setup failure, and status codes for
// per-message backend errors. The database lifecycle and the indexer
// instead return a *Error carrying a closed Kind (the query layer returns
// plain errors), and only the CLI layer in cmd/mailthread prints and sets
// the process exit code.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a closed enumeration of the error kinds this module raises.
type Kind int

const (
	// InputPathMissing: the supplied database path does not exist.
	InputPathMissing Kind = iota
	// InputPathNotDirectory: the path exists but is not a directory.
	InputPathNotDirectory
	// CreateFailure: the .notmuch subdirectory could not be created.
	CreateFailure
	// BackendException: the index backend raised an error.
	BackendException
	// IoError: the message file could not be opened or parsed.
	IoError
)

func (k Kind) String() string {
	switch k {
	case InputPathMissing:
		return "InputPathMissing"
	case InputPathNotDirectory:
		return "InputPathNotDirectory"
	case CreateFailure:
		return "CreateFailure"
	case BackendException:
		return "BackendException"
	case IoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is the uniform error type returned by every fallible operation in
// this module. Op names the operation that failed, and Err is the
// underlying cause (nil if the kind itself is sufficient diagnostic).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
