// Package ignore provides gitignore-style filtering of interface headers using go-git
package ignore

import (
	"errors"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileName is the ignore file looked up in the include directory of a platform.
const FileName = ".tklportignore"

// Matcher provides gitignore-based header filtering
type Matcher struct {
	matcher  gitignore.Matcher
	patterns int
}

// Load builds a matcher from dir/FileName inside fs. Patterns are relative to
// dir. A missing file yields a matcher that ignores nothing.
func Load(fs billy.Basic, dir string) (*Matcher, error) {
	content, err := util.ReadFile(fs, path.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(nil), nil
		}
		return nil, err
	}
	return New(parseLines(string(content))), nil
}

// New builds a matcher from raw gitignore lines.
func New(lines []string) *Matcher {
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return &Matcher{matcher: gitignore.NewMatcher(patterns), patterns: len(patterns)}
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return m.patterns
}

// parseLines drops blank lines and comments
func parseLines(content string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// IsIgnored reports whether the slash path rel (relative to the include
// directory) is ignored. A nil matcher ignores nothing.
func (m *Matcher) IsIgnored(rel string, isDir bool) bool {
	if m == nil || m.patterns == 0 {
		return false
	}
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(p string) []string {
	if p == "" || p == "." {
		return []string{}
	}
	p = strings.TrimPrefix(p, "/")
	parts := strings.Split(p, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
