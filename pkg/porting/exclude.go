package porting

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Exclusion names a doublestar pattern. A header is excluded when any of its
// directories, relative to the include root, matches the pattern.
type Exclusion struct {
	Name    string `json:"name" yaml:"name" mapstructure:"name"`
	Pattern string `json:"pattern" yaml:"pattern" mapstructure:"pattern"`
}

// DefaultExclusions skip the kernel's initialization and utility headers,
// which have no adapter counterpart.
var DefaultExclusions = []Exclusion{
	{Name: "init", Pattern: "**/*init*"},
	{Name: "utilities", Pattern: "**/*utilities*"},
}

// ParseExclusion parses "name=pattern".
func ParseExclusion(s string) (Exclusion, error) {
	name, pattern, ok := strings.Cut(s, "=")
	name, pattern = strings.TrimSpace(name), strings.TrimSpace(pattern)
	if !ok || name == "" || pattern == "" {
		return Exclusion{}, fmt.Errorf("invalid exclusion %q: expected name=pattern", s)
	}
	e := Exclusion{Name: name, Pattern: pattern}
	return e, e.Validate()
}

// Validate checks the pattern syntax.
func (e Exclusion) Validate() error {
	if !doublestar.ValidatePattern(e.Pattern) {
		return fmt.Errorf("invalid exclusion pattern %q for %s", e.Pattern, e.Name)
	}
	return nil
}

// Excluded returns the name of the first exclusion matching dir (a slash
// path relative to the include root) or one of its parents.
func Excluded(exclusions []Exclusion, dir string) (string, bool) {
	dir = path.Clean(dir)
	if dir == "." {
		return "", false
	}
	parts := strings.Split(dir, "/")
	for i := range parts {
		prefix := strings.Join(parts[:i+1], "/")
		for _, e := range exclusions {
			if ok, _ := doublestar.Match(e.Pattern, prefix); ok {
				return e.Name, true
			}
		}
	}
	return "", false
}
