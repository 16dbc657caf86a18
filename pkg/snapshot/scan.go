package snapshot

import (
	"regexp"
	"strings"

	"github.com/fulmenhq/tklport/pkg/porterr"
)

// nameRe finds the identifier directly in front of the first parameter list.
var nameRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// commentEnd returns the index just past the comment starting at i.
// Line comments end before their newline.
func commentEnd(s string, i int) (int, bool) {
	if i+1 >= len(s) || s[i] != '/' {
		return i, false
	}
	switch s[i+1] {
	case '/':
		if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
			return i + nl, true
		}
		return len(s), true
	case '*':
		if end := strings.Index(s[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 2, true
		}
		return len(s), true
	}
	return i, false
}

// literalEnd returns the index just past the string or char literal starting at i.
func literalEnd(s string, i int) (int, bool) {
	if s[i] != '"' && s[i] != '\'' {
		return i, false
	}
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1, true
		case '\n':
			return j, true
		}
	}
	return len(s), true
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); {
		if end, ok := commentEnd(s, i); ok {
			i = end
			continue
		}
		if end, ok := literalEnd(s, i); ok {
			i = end
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
		i++
	}
	return -1, false
}

// stripComments replaces every comment with a single space.
func stripComments(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if end, ok := commentEnd(s, i); ok {
			b.WriteByte(' ')
			i = end
			continue
		}
		if end, ok := literalEnd(s, i); ok {
			b.WriteString(s[i:end])
			i = end
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitHead extracts the function name and return type of a declaration head.
func splitHead(head string) (name, returnType string, ok bool) {
	clean := collapseSpace(stripComments(head))
	m := nameRe.FindStringSubmatchIndex(clean)
	if m == nil || !strings.HasSuffix(clean, ")") {
		return "", "", false
	}
	if strings.Contains(clean[:m[0]], "=") {
		return "", "", false
	}
	name = clean[m[2]:m[3]]
	// "void (*cb)(int)" declares a function pointer, not a function.
	if typeKeywords[name] || strings.HasPrefix(strings.TrimSpace(clean[m[1]:]), "*") {
		return "", "", false
	}
	return name, strings.TrimSpace(clean[:m[2]]), true
}

var typeKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"const": true, "volatile": true, "struct": true, "union": true, "enum": true,
	"extern": true, "static": true, "inline": true,
	"sizeof": true, "return": true, "if": true, "while": true, "for": true, "switch": true,
}

// cutUserRegion locates the user define block. The region is the text after
// the BEGIN marker line up to the END marker; before and after are the text
// outside the two marker lines.
func cutUserRegion(path, text string) (region, before, after string, found bool, err error) {
	b := strings.Index(text, UserBegin)
	if b < 0 {
		if strings.Contains(text, UserEnd) {
			return "", "", "", false, porterr.StructuralMismatch(path, "user END marker without BEGIN marker")
		}
		return "", text, "", false, nil
	}
	nl := strings.IndexByte(text[b:], '\n')
	if nl < 0 {
		return "", "", "", false, porterr.StructuralMismatch(path, "user BEGIN marker at end of file")
	}
	start := b + nl + 1
	e := strings.Index(text[start:], UserEnd)
	if e < 0 {
		return "", "", "", false, porterr.StructuralMismatch(path, "missing user END marker")
	}
	end := start + e
	rest := end + len(UserEnd)
	if nl := strings.IndexByte(text[rest:], '\n'); nl >= 0 {
		rest += nl + 1
	} else {
		rest = len(text)
	}
	return text[start:end], text[:b], text[rest:], true, nil
}
