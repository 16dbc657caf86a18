package safeio

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
)

// DefaultFileMode is used for new files when no mode can be derived.
const DefaultFileMode os.FileMode = 0o644

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, part := range strings.Split(filepath.ToSlash(c), "/") {
		if part == ".." {
			return "", errors.New("path traversal detected")
		}
	}
	return filepath.ToSlash(c), nil
}

// Exists reports whether name exists in fs.
func Exists(fs billy.Basic, name string) (bool, error) {
	_, err := fs.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// WriteFileAtomic writes data to name through a temporary file created in the
// same directory, then renames it over name. On any failure the temporary
// file is removed and name is left as it was.
func WriteFileAtomic(fs billy.Filesystem, name string, data []byte, perm os.FileMode) (err error) {
	dir := path.Dir(filepath.ToSlash(name))
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := createTemp(fs, dir, "."+path.Base(filepath.ToSlash(name))+".tmp-", perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		_ = fs.Remove(tmpName)
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	// Mode is set at creation. Chrooted billy filesystems reject Chmod.
	if ch, ok := fs.(billy.Chmod); ok {
		_ = ch.Chmod(tmpName, perm)
	}
	if err = fs.Rename(tmpName, name); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}

// createTemp opens a new, exclusively created file with mode perm in dir.
func createTemp(fs billy.Filesystem, dir, prefix string, perm os.FileMode) (billy.File, error) {
	var err error
	for range 8 {
		name := path.Join(dir, prefix+uuid.NewString()[:8])
		var f billy.File
		f, err = fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	return nil, err
}

// WriteFilePreservePerms writes data atomically, keeping the mode of an
// existing file. New files get DefaultFileMode.
func WriteFilePreservePerms(fs billy.Filesystem, name string, data []byte) error {
	mode := DefaultFileMode
	if st, err := fs.Stat(name); err == nil {
		if m := st.Mode() & 0o777; m != 0 {
			mode = m
		}
	}
	return WriteFileAtomic(fs, name, data, mode)
}

// CopyIfAbsent copies srcName from src to dstName in dst unless dstName
// already exists. It reports whether a copy was made. A missing source is
// returned as an error matching os.ErrNotExist.
func CopyIfAbsent(src billy.Basic, srcName string, dst billy.Filesystem, dstName string) (bool, error) {
	exists, err := Exists(dst, dstName)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", dstName, err)
	}
	if exists {
		return false, nil
	}

	st, err := src.Stat(srcName)
	if err != nil {
		return false, err
	}
	data, err := util.ReadFile(src, srcName)
	if err != nil {
		return false, err
	}
	mode := st.Mode() & 0o777
	if mode == 0 {
		mode = DefaultFileMode
	}
	if err := WriteFileAtomic(dst, dstName, data, mode); err != nil {
		return false, err
	}
	return true, nil
}
