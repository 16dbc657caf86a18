// Package merge reconciles the current kernel interface of an adapter file with
// the previously generated (and possibly hand-edited) adapter source.
//
// The merge is a pure function. Its preservation contract:
//   - the legacy user define block is copied verbatim;
//   - a function present on both sides keeps its legacy body, whatever its new signature;
//   - a function only present in the legacy file is kept, annotated and appended
//     after the current functions in legacy order, so no implementation is lost.
package merge

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/tklport/pkg/porterr"
	"github.com/fulmenhq/tklport/pkg/snapshot"
)

// ErrorCodeHeader is included by every default user define block.
const ErrorCodeHeader = "tuya_error_code.h"

// DefaultUserRegion is the user define block of a file generated for the first time.
func DefaultUserRegion(header string) string {
	return fmt.Sprintf("#include \"%s\"\n#include \"%s\"\n", header, ErrorCodeHeader)
}

// Merge returns the merged descriptor of current (the interface snapshot) and
// legacy (the previously generated source, nil when there is none).
// Neither input is modified.
func Merge(current, legacy *snapshot.File) (*snapshot.File, error) {
	if current == nil {
		return nil, porterr.StructuralMismatch("", "missing interface snapshot")
	}
	if err := checkCurrent(current); err != nil {
		return nil, err
	}

	merged := &snapshot.File{
		Name:      current.Name,
		Header:    current.Header,
		Functions: make([]snapshot.Function, 0, len(current.Functions)),
	}

	if legacy == nil {
		merged.IsNewFile = true
		merged.UserRegion = current.UserRegion
		if merged.UserRegion == "" {
			merged.UserRegion = DefaultUserRegion(current.Header)
		}
		for _, fn := range current.Functions {
			fn.Body = ""
			fn.IsNew = true
			fn.Retired = false
			merged.Functions = append(merged.Functions, fn)
		}
		return merged, nil
	}

	for _, fn := range legacy.Functions {
		if fn.Name == "" {
			return nil, porterr.StructuralMismatch(legacy.Name, "legacy function without a name")
		}
	}

	merged.UserRegion = legacy.UserRegion

	currentNames := make(map[string]struct{}, len(current.Functions))
	for _, fn := range current.Functions {
		currentNames[fn.Name] = struct{}{}
		fn.Retired = false
		if old, ok := legacy.Lookup(fn.Name); ok {
			fn.Body = old.Body
			fn.IsNew = false
		} else {
			fn.Body = ""
			fn.IsNew = true
		}
		merged.Functions = append(merged.Functions, fn)
	}

	for _, old := range legacy.Functions {
		if _, ok := currentNames[old.Name]; ok {
			continue
		}
		old.IsNew = false
		old.Retired = true
		old.Signature = Retire(old.Signature)
		merged.Functions = append(merged.Functions, old)
	}

	return merged, nil
}

// Retire prefixes a signature with the retired annotation unless it already carries it.
func Retire(signature string) string {
	if strings.HasPrefix(signature, snapshot.RetiredAnnotation) {
		return signature
	}
	return snapshot.RetiredAnnotation + signature
}

func checkCurrent(f *snapshot.File) error {
	seen := make(map[string]struct{}, len(f.Functions))
	for _, fn := range f.Functions {
		if fn.Name == "" {
			return porterr.StructuralMismatch(f.Header, "function without a name")
		}
		if _, dup := seen[fn.Name]; dup {
			return porterr.DuplicateSymbol(f.Header, fn.Name)
		}
		seen[fn.Name] = struct{}{}
	}
	return nil
}
