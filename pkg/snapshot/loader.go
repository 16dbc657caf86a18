package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/fulmenhq/tklport/pkg/porterr"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultHeaderCacheSize bounds the number of parsed headers kept in memory.
const DefaultHeaderCacheSize = 512

// HeaderLoader produces interface snapshots. Parsed headers are cached by
// content hash so identical kernel headers shared by several platforms are
// parsed once per batch.
type HeaderLoader struct {
	cache *lru.Cache[string, *File]
}

// NewHeaderLoader creates a loader with a cache of the given size
// (DefaultHeaderCacheSize when size <= 0).
func NewHeaderLoader(size int) (*HeaderLoader, error) {
	if size <= 0 {
		size = DefaultHeaderCacheSize
	}
	cache, err := lru.New[string, *File](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create header cache: %w", err)
	}
	return &HeaderLoader{cache: cache}, nil
}

// Load parses the header at p inside fs. A missing header is ErrNotFound.
func (l *HeaderLoader) Load(fs billy.Basic, p string) (*File, error) {
	data, err := util.ReadFile(fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, porterr.NotFound(p, err)
		}
		return nil, fmt.Errorf("failed to read header %s: %w", p, err)
	}

	name := path.Base(p)
	sum := sha256.Sum256(data)
	key := name + ":" + hex.EncodeToString(sum[:])
	if cached, ok := l.cache.Get(key); ok {
		return cached.Clone(), nil
	}

	f, err := ParseHeader(name, data)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, f)
	return f.Clone(), nil
}

// Len returns the number of cached headers.
func (l *HeaderLoader) Len() int {
	return l.cache.Len()
}

// LoadSource parses the previously generated source at p inside fs.
// It returns (nil, nil) when the file does not exist.
func LoadSource(fs billy.Basic, p string) (*File, error) {
	data, err := util.ReadFile(fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read adapter source %s: %w", p, err)
	}
	return ParseSource(path.Base(p), data)
}
