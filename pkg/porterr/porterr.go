// Package porterr defines the failure kinds reported by the porting pipeline.
//
// Every error surfaced by the ability extractor, the snapshot loaders, the merge
// engine, the generator and the scaffold copier wraps one of the sentinel kinds
// below, so callers can branch with errors.Is without parsing messages.
package porterr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an expected input file or directory is missing
	// (ability configuration, template, include directory).
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSymbol indicates two current functions share a name within one file.
	ErrDuplicateSymbol = errors.New("duplicate symbol")

	// ErrStructuralMismatch indicates a supplied snapshot is malformed.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrWriteFailure indicates a file could not be written completely.
	ErrWriteFailure = errors.New("write failure")
)

// Error carries a failure kind together with the file and symbol it concerns.
type Error struct {
	// Kind is one of the sentinel errors of this package.
	Kind error

	// Path is the file the failure relates to, if any.
	Path string

	// Symbol is the function name the failure relates to, if any.
	Symbol string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Symbol != "" {
		msg = fmt.Sprintf("%s (symbol %q)", msg, e.Symbol)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// NotFound builds an ErrNotFound failure for path.
func NotFound(path string, err error) error {
	return &Error{Kind: ErrNotFound, Path: path, Err: err}
}

// DuplicateSymbol builds an ErrDuplicateSymbol failure.
func DuplicateSymbol(path, symbol string) error {
	return &Error{Kind: ErrDuplicateSymbol, Path: path, Symbol: symbol}
}

// StructuralMismatch builds an ErrStructuralMismatch failure with a reason.
func StructuralMismatch(path, reason string) error {
	return &Error{Kind: ErrStructuralMismatch, Path: path, Err: errors.New(reason)}
}

// WriteFailure builds an ErrWriteFailure failure for path.
func WriteFailure(path string, err error) error {
	return &Error{Kind: ErrWriteFailure, Path: path, Err: err}
}

// KindOf returns the sentinel kind wrapped by err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrDuplicateSymbol, ErrStructuralMismatch, ErrWriteFailure} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
