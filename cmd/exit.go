/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"context"
	"errors"

	"github.com/fulmenhq/tklport/pkg/exitcode"
	"github.com/fulmenhq/tklport/pkg/porterr"
)

// exitCodeFor maps an error tree to the most severe exit code it contains.
func exitCodeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}
	if isConfigError(err) {
		return exitcode.ConfigError
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var codes []int
		for _, e := range joined.Unwrap() {
			codes = append(codes, exitCodeFor(e))
		}
		return exitcode.Worst(codes...)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return exitcode.Canceled
	}
	switch porterr.KindOf(err) {
	case porterr.ErrNotFound:
		return exitcode.PlatformNotFound
	case porterr.ErrDuplicateSymbol, porterr.ErrStructuralMismatch:
		return exitcode.ValidationError
	case porterr.ErrWriteFailure:
		return exitcode.FileSystemError
	}
	return exitcode.GeneralError
}
