package adapter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aymerick/raymond"

	"github.com/fulmenhq/tklport/internal/assets"
	"github.com/fulmenhq/tklport/pkg/snapshot"
)

const fileHeaderTemplate = "adapter/file_header.hbs"

var loadFileHeader = sync.OnceValues(func() (*raymond.Template, error) {
	src, ok := assets.GetTemplate(fileHeaderTemplate)
	if !ok {
		return nil, fmt.Errorf("embedded template %s not found", fileHeaderTemplate)
	}
	return raymond.Parse(string(src))
})

// Render produces the bytes of a merged adapter file: the file description,
// the user define block between its markers, then every function in order.
// Functions without a body get a stub returning DefaultReturn of their tag.
func Render(f *snapshot.File) ([]byte, error) {
	tpl, err := loadFileHeader()
	if err != nil {
		return nil, err
	}
	header, err := tpl.Exec(map[string]string{"file": f.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to render file header for %s: %w", f.Name, err)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(snapshot.UserBegin)
	b.WriteByte('\n')
	b.WriteString(f.UserRegion)
	b.WriteString(snapshot.UserEnd)
	b.WriteString("\n\n")

	for _, fn := range f.Functions {
		body := fn.Body
		if body == "" {
			body = StubBody(fn.Return)
		}
		b.WriteString(fn.Signature)
		b.WriteString("\n{\n")
		b.WriteString(body)
		b.WriteString("}\n\n")
	}
	return []byte(b.String()), nil
}
