package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_templates
var Templates embed.FS

// GetTemplatesFS returns the embedded templates rooted at embedded_templates.
func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

// GetTemplate returns an embedded template by path relative to embedded_templates
// (e.g., "adapter/file_header.hbs").
func GetTemplate(relPath string) ([]byte, bool) {
	data, err := fs.ReadFile(GetTemplatesFS(), relPath)
	return data, err == nil
}

// GetEmbeddedAsset retrieves an embedded asset by its full embed path.
func GetEmbeddedAsset(path string) ([]byte, error) {
	if data, err := fs.ReadFile(Templates, path); err == nil {
		return data, nil
	}
	if data, err := schemaFS.ReadFile(path); err == nil {
		return data, nil
	}
	return nil, fs.ErrNotExist
}
