package porting

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/fulmenhq/tklport/pkg/ignore"
	"github.com/fulmenhq/tklport/pkg/logger"
	"github.com/fulmenhq/tklport/pkg/porterr"
	"github.com/fulmenhq/tklport/pkg/snapshot"
)

// Discover walks the interface headers below includeDir and groups them by
// directory. Excluded directories and paths matched by the include
// directory's ignore file are skipped. Groups are sorted by directory and
// headers by name. A missing includeDir is ErrNotFound.
func Discover(fs billy.Filesystem, includeDir string, exclusions []Exclusion) ([]snapshot.Group, error) {
	if _, err := fs.Stat(includeDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, porterr.NotFound(includeDir, err)
		}
		return nil, err
	}
	ignored, err := ignore.Load(fs, includeDir)
	if err != nil {
		return nil, err
	}

	byDir := map[string]*snapshot.Group{}
	err = util.Walk(fs, includeDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(includeDir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if name, ok := Excluded(exclusions, rel); ok {
				logger.Debug("Skipping excluded interface directory",
					logger.String("dir", rel), logger.String("exclusion", name))
				return filepath.SkipDir
			}
			if ignored.IsIgnored(rel, true) {
				logger.Debug("Skipping ignored interface directory", logger.String("dir", rel))
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(info.Name(), ".h") {
			return nil
		}
		if ignored.IsIgnored(rel, false) {
			logger.Debug("Skipping ignored interface header", logger.String("header", rel))
			return nil
		}

		logger.Trace("Interface header found", logger.String("header", rel))
		dir := path.Dir(rel)
		g, ok := byDir[dir]
		if !ok {
			name := path.Base(dir)
			if dir == "." {
				name = path.Base(filepath.ToSlash(includeDir))
			}
			g = &snapshot.Group{Name: name, Dir: dir}
			byDir[dir] = g
		}
		g.Headers = append(g.Headers, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	groups := make([]snapshot.Group, 0, len(byDir))
	for _, g := range byDir {
		sort.Strings(g.Headers)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Dir < groups[j].Dir })
	return groups, nil
}
