package snapshot

import (
	"fmt"
	"path"
	"strings"
)

const (
	headerExt = ".h"
	sourceExt = ".c"
)

// SourceName maps an interface header name to its adapter source name
// ("tkl_uart.h" -> "tkl_uart.c"). HeaderName is its inverse.
func SourceName(header string) (string, error) {
	return swapExt(header, headerExt, sourceExt)
}

// HeaderName maps an adapter source name to its interface header name
// ("tkl_uart.c" -> "tkl_uart.h"). SourceName is its inverse.
func HeaderName(source string) (string, error) {
	return swapExt(source, sourceExt, headerExt)
}

func swapExt(name, from, to string) (string, error) {
	base := path.Base(name)
	if name != base || strings.ContainsRune(name, '\\') {
		return "", fmt.Errorf("expected a bare file name, got %q", name)
	}
	stem, ok := strings.CutSuffix(name, from)
	if !ok || stem == "" {
		return "", fmt.Errorf("%q does not have the %s extension", name, from)
	}
	return stem + to, nil
}
