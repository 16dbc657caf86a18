package snapshot

import (
	"fmt"

	"github.com/fulmenhq/tklport/internal/schema"
	"github.com/fulmenhq/tklport/pkg/porterr"
)

// SchemaName is the embedded JSON schema every snapshot must satisfy.
const SchemaName = "adapter-file-v1.0.0"

// Validate checks the structural shape of f. A snapshot that fails is
// reported as porterr.ErrStructuralMismatch and must not be consumed.
func Validate(f *File) error {
	if f == nil {
		return porterr.StructuralMismatch("", "nil snapshot")
	}
	res, err := schema.Validate(f, SchemaName)
	if err != nil {
		return fmt.Errorf("failed to validate snapshot %s: %w", f.Name, err)
	}
	if !res.Valid {
		return porterr.StructuralMismatch(f.Name, res.Summary())
	}
	return nil
}
