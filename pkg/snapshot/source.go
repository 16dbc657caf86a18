package snapshot

import (
	"strings"

	"github.com/fulmenhq/tklport/pkg/porterr"
)

// ParseSource builds the legacy snapshot of a previously generated adapter
// source: the verbatim user define block and every top-level function
// definition with its exact body text.
//
// A body is the text after the line break following the opening brace up to
// (not including) the closing brace, so rendering "{\n" + body + "}" gives the
// original bytes back.
func ParseSource(name string, data []byte) (*File, error) {
	header, err := HeaderName(name)
	if err != nil {
		return nil, err
	}
	region, _, after, found, err := cutUserRegion(name, string(data))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, porterr.StructuralMismatch(name, "missing user define markers")
	}

	fns, err := scanDefinitions(name, after)
	if err != nil {
		return nil, err
	}
	f := &File{
		Name:       name,
		Header:     header,
		Functions:  fns,
		UserRegion: region,
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

func scanDefinitions(path, text string) ([]Function, error) {
	fns := []Function{}
	headStart := 0
	for i := 0; i < len(text); {
		if end, ok := commentEnd(text, i); ok {
			i = end
			continue
		}
		if end, ok := literalEnd(text, i); ok {
			i = end
			continue
		}
		switch text[i] {
		case ';':
			headStart = i + 1
		case '}':
			return nil, porterr.StructuralMismatch(path, "unbalanced closing brace")
		case '{':
			closing, ok := matchBrace(text, i)
			if !ok {
				return nil, porterr.StructuralMismatch(path, "unbalanced opening brace")
			}
			head := strings.TrimSpace(text[headStart:i])
			if name, ret, isFunc := splitHead(head); isFunc {
				bodyStart := i + 1
				switch {
				case strings.HasPrefix(text[bodyStart:], "\r\n"):
					bodyStart += 2
				case strings.HasPrefix(text[bodyStart:], "\n"):
					bodyStart++
				}
				if bodyStart > closing {
					bodyStart = closing
				}
				fns = append(fns, Function{
					Name:      name,
					Signature: head,
					Return:    TagFor(ret),
					Body:      text[bodyStart:closing],
				})
				headStart = closing + 1
			}
			i = closing + 1
			continue
		}
		i++
	}
	return fns, nil
}
