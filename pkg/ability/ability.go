// Package ability extracts the capability flags of a platform from its
// minimal kernel configuration (default.config).
package ability

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/fulmenhq/tklport/pkg/porterr"
	"github.com/go-git/go-billy/v5"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ConfigFile is the platform-relative name of the kernel capability configuration.
const ConfigFile = "default.config"

// KeyPrefix is stripped from every configuration key.
const KeyPrefix = "CONFIG_"

// Well-known capability keys.
const (
	KeyOperatingSystem = "OPERATING_SYSTEM"
	KeyRSA             = "ENABLE_PLATFORM_RSA"
	KeyECC             = "ENABLE_PLATFORM_ECC"
	KeyAES             = "ENABLE_PLATFORM_AES"
	KeySHA256          = "ENABLE_PLATFORM_SHA256"
	KeySHA1            = "ENABLE_PLATFORM_SHA1"
	KeyMD5             = "ENABLE_PLATFORM_MD5"
)

// hostedOS is the OPERATING_SYSTEM value of a Linux platform.
const hostedOS = "100"

var lineRe = regexp.MustCompile(`^` + KeyPrefix + `([A-Za-z0-9_]+)=(.*)$`)

// Map is the immutable set of capabilities declared by a platform.
type Map struct {
	values map[string]string
}

// New builds a Map from key/value pairs. Keys must already be stripped of
// KeyPrefix; empty and empty-quoted values are dropped the same way Parse
// drops them.
func New(values map[string]string) Map {
	m := Map{values: make(map[string]string, len(values))}
	for k, v := range values {
		if absent(v) {
			continue
		}
		m.values[k] = v
	}
	return m
}

func absent(value string) bool {
	return value == "" || value == `""`
}

// Load reads the capability configuration at path on the local filesystem.
func Load(path string) (Map, error) {
	f, err := os.Open(path) // #nosec G304 -- platform config path supplied by the operator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Map{}, porterr.NotFound(path, err)
		}
		return Map{}, fmt.Errorf("failed to open ability config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// LoadFS reads the capability configuration at path inside fs.
func LoadFS(fs billy.Basic, path string) (Map, error) {
	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Map{}, porterr.NotFound(path, err)
		}
		return Map{}, fmt.Errorf("failed to open ability config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads CONFIG_<KEY>=<VALUE> lines. Other lines are ignored and a value
// of "" marks the capability as absent. A leading byte order mark is honored,
// so UTF-16 files saved by Windows editors parse like UTF-8 ones.
func Parse(r io.Reader) (Map, error) {
	m := Map{values: make(map[string]string)}
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	for scanner.Scan() {
		match := lineRe.FindStringSubmatch(strings.TrimSuffix(scanner.Text(), "\r"))
		if match == nil {
			continue
		}
		key, value := match[1], match[2]
		if absent(value) {
			continue
		}
		m.values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return Map{}, fmt.Errorf("failed to read ability config: %w", err)
	}
	return m, nil
}

// Get returns the literal value of key and whether it is present.
func (m Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// AnyOf reports whether at least one of keys is present.
func (m Map) AnyOf(keys ...string) bool {
	for _, k := range keys {
		if m.Has(k) {
			return true
		}
	}
	return false
}

// HostedOS reports whether the platform runs a hosted operating system (Linux).
// Platforms without the flag are treated as bare-metal/RTOS.
func (m Map) HostedOS() bool {
	v, ok := m.Get(KeyOperatingSystem)
	return ok && v == hostedOS
}

// Len returns the number of present capabilities.
func (m Map) Len() int {
	return len(m.values)
}

// Keys returns the present capability keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToMap returns a copy of the underlying key/value pairs.
func (m Map) ToMap() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
