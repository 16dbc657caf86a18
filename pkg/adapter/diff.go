package adapter

import (
	difflib "github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// unifiedDiff returns a unified patch from old to new, or "" when they are equal.
func unifiedDiff(name string, old, new []byte, exists bool) string {
	u := difflib.UnifiedDiff{
		B:        splitLines(new),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContext,
	}
	if exists {
		u.A = splitLines(old)
	} else {
		u.FromFile = "/dev/null"
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return ""
	}
	return s
}

func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	return difflib.SplitLines(string(b))
}
