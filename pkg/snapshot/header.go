package snapshot

import (
	"strings"
)

type frameKind int

const (
	frameExtern frameKind = iota
	frameBlock
	frameFuncDef
)

// ParseHeader builds the interface snapshot of a kernel adapter header:
// the top-level function prototypes in declaration order plus any user
// define block embedded in the header.
//
// Comments, preprocessor directives, typedefs, aggregate bodies and inline
// definitions are skipped; extern "C" braces are transparent.
func ParseHeader(name string, data []byte) (*File, error) {
	source, err := SourceName(name)
	if err != nil {
		return nil, err
	}
	region, before, after, found, err := cutUserRegion(name, string(data))
	if err != nil {
		return nil, err
	}

	f := &File{
		Name:      source,
		Header:    name,
		Functions: scanPrototypes(before + after),
	}
	if found {
		f.UserRegion = region
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

func scanPrototypes(text string) []Function {
	var (
		fns       []Function
		stmt      strings.Builder
		stack     []frameKind
		lineBlank = true
	)

	blockDepth := func() int {
		n := 0
		for _, k := range stack {
			if k != frameExtern {
				n++
			}
		}
		return n
	}

	for i := 0; i < len(text); {
		c := text[i]

		if end, ok := commentEnd(text, i); ok {
			if blockDepth() == 0 {
				stmt.WriteByte(' ')
			}
			i = end
			continue
		}
		if end, ok := literalEnd(text, i); ok {
			if blockDepth() == 0 {
				stmt.WriteString(text[i:end])
			}
			lineBlank = false
			i = end
			continue
		}
		if c == '#' && lineBlank {
			i = directiveEnd(text, i)
			continue
		}

		switch {
		case c == '\n':
			lineBlank = true
			if blockDepth() == 0 {
				stmt.WriteByte(c)
			}
		case c == '{':
			if blockDepth() == 0 {
				head := collapseSpace(stmt.String())
				switch {
				case head == `extern "C"`:
					stack = append(stack, frameExtern)
					stmt.Reset()
				case strings.HasSuffix(head, ")"):
					stack = append(stack, frameFuncDef)
				default:
					stack = append(stack, frameBlock)
				}
			} else {
				stack = append(stack, frameBlock)
			}
			lineBlank = false
		case c == '}':
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if blockDepth() == 0 {
					switch top {
					case frameFuncDef:
						stmt.Reset()
					case frameBlock:
						stmt.WriteString("{}")
					}
				}
			}
			lineBlank = false
		case c == ';' && blockDepth() == 0:
			if fn, ok := prototype(stmt.String()); ok {
				fns = append(fns, fn)
			}
			stmt.Reset()
			lineBlank = false
		default:
			if blockDepth() == 0 {
				stmt.WriteByte(c)
			}
			if c != ' ' && c != '\t' && c != '\r' {
				lineBlank = false
			}
		}
		i++
	}
	return fns
}

// directiveEnd returns the index of the newline ending the preprocessor
// directive at i, following backslash continuations.
func directiveEnd(s string, i int) int {
	for i < len(s) {
		nl := strings.IndexByte(s[i:], '\n')
		if nl < 0 {
			return len(s)
		}
		end := i + nl
		line := strings.TrimRight(s[i:end], " \t\r")
		if !strings.HasSuffix(line, "\\") {
			return end
		}
		i = end + 1
	}
	return len(s)
}

func prototype(stmt string) (Function, bool) {
	decl := collapseSpace(stmt)
	if decl == "" || strings.Contains(decl, "{") || strings.HasPrefix(decl, "typedef ") {
		return Function{}, false
	}
	name, ret, ok := splitHead(decl)
	if !ok {
		return Function{}, false
	}
	tag := TagFor(ret)
	if tag == "" {
		return Function{}, false
	}
	return Function{Name: name, Signature: decl, Return: tag}, true
}
