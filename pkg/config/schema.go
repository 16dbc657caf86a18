package config

import (
	"fmt"

	"github.com/fulmenhq/tklport/internal/schema"
)

// SchemaName is the embedded schema the effective configuration must satisfy.
const SchemaName = "tklport-config-v1.0.0"

// Validate checks the configuration against the embedded schema
func (c *Config) Validate() error {
	res, err := schema.Validate(c, SchemaName)
	if err != nil {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}
	if !res.Valid {
		return fmt.Errorf("configuration validation failed: %s", res.Summary())
	}
	return nil
}
