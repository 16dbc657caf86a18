// Package adapter turns merged adapter descriptors into source files inside a
// platform tree.
package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/fulmenhq/tklport/pkg/ability"
	"github.com/fulmenhq/tklport/pkg/logger"
	"github.com/fulmenhq/tklport/pkg/porterr"
	"github.com/fulmenhq/tklport/pkg/safeio"
	"github.com/fulmenhq/tklport/pkg/snapshot"
)

// Layout of the adapter inside a platform directory.
const (
	AdapterDir = "tuyaos/tuyaos_adapter"
	IncludeDir = AdapterDir + "/include"
	SrcDir     = AdapterDir + "/src"
)

// Action is what the generator did with one adapter file.
type Action string

const (
	ActionSkipped  Action = "skipped"
	ActionCreated  Action = "created"
	ActionTemplate Action = "template"
	ActionMerged   Action = "merged"
	ActionFailed   Action = "failed"
)

// Result describes the outcome for one adapter file.
type Result struct {
	File      string `json:"file" yaml:"file" toml:"file"`
	Path      string `json:"path" yaml:"path" toml:"path"`
	Action    Action `json:"action" yaml:"action" toml:"action"`
	Unchanged bool   `json:"unchanged" yaml:"unchanged" toml:"unchanged"`
	Added     int    `json:"added" yaml:"added" toml:"added"`
	Kept      int    `json:"kept" yaml:"kept" toml:"kept"`
	Retired   int    `json:"retired" yaml:"retired" toml:"retired"`
	Diff      string `json:"diff,omitempty" yaml:"diff,omitempty" toml:"diff,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// Config configures a Generator.
type Config struct {
	// Target is the platform directory.
	Target billy.Filesystem

	// Templates holds per-file templates for new adapters; nil disables them.
	Templates billy.Basic

	// Gates overrides DefaultGates when non-nil.
	Gates []Gate

	// DryRun renders without writing.
	DryRun bool

	// Diff attaches a unified diff against the file on disk to each result.
	Diff bool
}

// Generator writes adapter sources for one platform directory.
type Generator struct {
	cfg       Config
	dirsReady bool
}

// NewGenerator validates cfg and returns a Generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Target == nil {
		return nil, errors.New("adapter generator requires a target filesystem")
	}
	if cfg.Gates == nil {
		cfg.Gates = DefaultGates
	}
	return &Generator{cfg: cfg}, nil
}

// Generate emits the source for a merged descriptor. Gated files are skipped,
// new files with a template are copied from it, everything else is rendered.
func (g *Generator) Generate(file *snapshot.File, abilities ability.Map) (Result, error) {
	res := Result{File: file.Name, Path: path.Join(SrcDir, file.Name)}
	res.Added, res.Kept, res.Retired = file.Counts()

	if !Allowed(g.cfg.Gates, file.Name, abilities) {
		res.Action = ActionSkipped
		logger.Debug("Adapter gated off by platform abilities", logger.String("file", file.Name))
		return res, nil
	}

	content, action, err := g.content(file)
	if err != nil {
		res.Action = ActionFailed
		res.Error = err.Error()
		return res, err
	}
	res.Action = action

	old, err := util.ReadFile(g.cfg.Target, res.Path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		res.Action = ActionFailed
		werr := porterr.WriteFailure(res.Path, err)
		res.Error = werr.Error()
		return res, werr
	}
	res.Unchanged = exists && bytes.Equal(old, content)
	if g.cfg.Diff && !res.Unchanged {
		res.Diff = unifiedDiff(res.Path, old, content, exists)
	}

	if g.cfg.DryRun || res.Unchanged {
		return res, nil
	}
	if err := g.ensureDirs(); err != nil {
		res.Action = ActionFailed
		res.Error = err.Error()
		return res, err
	}
	if err := safeio.WriteFilePreservePerms(g.cfg.Target, res.Path, content); err != nil {
		res.Action = ActionFailed
		werr := porterr.WriteFailure(res.Path, err)
		res.Error = werr.Error()
		return res, werr
	}
	logger.Debug("Adapter written",
		logger.String("file", res.Path),
		logger.String("action", string(res.Action)),
		logger.Int("added", res.Added),
		logger.Int("retired", res.Retired))
	return res, nil
}

func (g *Generator) content(file *snapshot.File) ([]byte, Action, error) {
	if file.IsNewFile && g.cfg.Templates != nil {
		data, err := util.ReadFile(g.cfg.Templates, file.Name)
		switch {
		case err == nil:
			return data, ActionTemplate, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, ActionFailed, fmt.Errorf("failed to read template %s: %w", file.Name, err)
		}
	}
	data, err := Render(file)
	if err != nil {
		return nil, ActionFailed, err
	}
	if file.IsNewFile {
		return data, ActionCreated, nil
	}
	return data, ActionMerged, nil
}

func (g *Generator) ensureDirs() error {
	if g.dirsReady {
		return nil
	}
	for _, dir := range []string{IncludeDir, SrcDir} {
		if err := g.cfg.Target.MkdirAll(dir, 0o755); err != nil {
			return porterr.WriteFailure(dir, err)
		}
	}
	g.dirsReady = true
	return nil
}
