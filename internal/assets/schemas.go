package assets

import (
	"embed"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed embedded_schemas
var schemaFS embed.FS

// SchemaInfo holds schema metadata.
type SchemaInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Draft string `json:"draft"`
}

// knownSchemas maps schema names to their embed paths.
var knownSchemas = map[string]string{
	"adapter-file-v1.0.0":   "embedded_schemas/snapshot/v1.0.0/adapter-file.yaml",
	"tklport-config-v1.0.0": "embedded_schemas/config/v1.0.0/tklport-config.yaml",
}

// GetSchema returns the embedded schema bytes by embed path.
func GetSchema(relPath string) ([]byte, bool) {
	data, err := schemaFS.ReadFile(relPath)
	return data, err == nil
}

// SchemaPath returns the embed path of a known schema name.
func SchemaPath(name string) (string, bool) {
	p, ok := knownSchemas[name]
	return p, ok
}

// GetSchemaNames returns list of available schemas with metadata (heuristic draft detection).
func GetSchemaNames() []SchemaInfo {
	var infos []SchemaInfo
	for name, path := range knownSchemas {
		if _, ok := GetSchema(path); ok {
			infos = append(infos, SchemaInfo{Name: name, Path: path, Draft: detectDraft(path)})
		}
	}
	return infos
}

// detectDraft heuristically detects draft from schema bytes via $schema key.
func detectDraft(path string) string {
	bytes, ok := GetSchema(path)
	if !ok {
		return "Unknown (07/2020-12 supported)"
	}
	var doc interface{}
	err := yaml.Unmarshal(bytes, &doc)
	if err != nil {
		err = json.Unmarshal(bytes, &doc)
		if err != nil {
			return "Unknown (07/2020-12 supported)"
		}
	}
	if m, ok := doc.(map[string]interface{}); ok {
		if v, ok := m["$schema"].(string); ok {
			if strings.Contains(v, "draft-07") {
				return "Draft-07"
			}
			if strings.Contains(v, "2020-12") {
				return "Draft-2020-12"
			}
		}
	}
	return "Unknown (07/2020-12 supported)"
}
