// Package scaffold seeds a platform directory with the build and
// configuration files a new port needs. Files that already exist are never
// touched.
package scaffold

import (
	"errors"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"

	"github.com/fulmenhq/tklport/pkg/ability"
	"github.com/fulmenhq/tklport/pkg/logger"
	"github.com/fulmenhq/tklport/pkg/porterr"
	"github.com/fulmenhq/tklport/pkg/safeio"
)

// RootDir is created in every scaffolded platform.
const RootDir = "tuyaos"

// Build-file variants, relative to the template root.
const (
	HostedVariant = "linux"
	RTOSVariant   = "rtos"
)

// Entry is one template to copy.
type Entry struct {
	// Source is the slash path relative to the template root.
	Source string `json:"source" yaml:"source"`

	// Target is the slash path relative to the platform directory.
	Target string `json:"target" yaml:"target"`

	// Optional entries may be missing from the template root.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
}

var common = []Entry{
	{Source: "platform_config.cmake", Target: "platform_config.cmake"},
	{Source: "toolchain_file.cmake", Target: "toolchain_file.cmake"},
	{Source: "Kconfig", Target: "Kconfig"},
	{Source: "build_example.sh", Target: "build_example.sh"},
}

// Entries returns the scaffold list for a platform. The Makefile comes from
// the hosted variant when the platform runs a hosted OS, from the RTOS
// variant otherwise.
func Entries(abilities ability.Map) []Entry {
	entries := append([]Entry(nil), common...)
	if abilities.HostedOS() {
		return append(entries, Entry{Source: path.Join(HostedVariant, "Makefile"), Target: "Makefile"})
	}
	return append(entries, Entry{Source: path.Join(RTOSVariant, "Makefile"), Target: "Makefile", Optional: true})
}

// Action is what happened to one scaffold entry.
type Action string

const (
	ActionCopied  Action = "copied"
	ActionExists  Action = "exists"
	ActionPending Action = "pending"
	ActionAbsent  Action = "absent"
	ActionFailed  Action = "failed"
)

// Result describes one scaffold entry.
type Result struct {
	Target string `json:"target" yaml:"target" toml:"target"`
	Source string `json:"source" yaml:"source" toml:"source"`
	Action Action `json:"action" yaml:"action" toml:"action"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// Copier copies scaffold templates into a platform directory.
type Copier struct {
	// Templates is the template root; nil means no templates are available.
	Templates billy.Basic

	// Target is the platform directory.
	Target billy.Filesystem

	// DryRun reports what would be copied without writing.
	DryRun bool
}

// Copy processes every entry. A failing entry does not stop the others; the
// returned error joins the failures.
func (c *Copier) Copy(entries []Entry) ([]Result, error) {
	if !c.DryRun {
		if err := c.Target.MkdirAll(RootDir, 0o755); err != nil {
			return nil, porterr.WriteFailure(RootDir, err)
		}
	}

	var (
		results = make([]Result, 0, len(entries))
		errs    []error
	)
	for _, e := range entries {
		res, err := c.copyOne(e)
		if err != nil {
			res.Action = ActionFailed
			res.Error = err.Error()
			errs = append(errs, err)
			logger.Warn("Scaffold entry failed", logger.String("target", e.Target), logger.Err(err))
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (c *Copier) copyOne(e Entry) (Result, error) {
	res := Result{Target: e.Target, Source: e.Source}

	exists, err := safeio.Exists(c.Target, e.Target)
	if err != nil {
		return res, porterr.WriteFailure(e.Target, err)
	}
	if exists {
		res.Action = ActionExists
		return res, nil
	}

	if c.Templates == nil {
		if e.Optional {
			res.Action = ActionAbsent
			return res, nil
		}
		return res, porterr.NotFound(e.Source, os.ErrNotExist)
	}
	if _, err := c.Templates.Stat(e.Source); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if e.Optional {
				res.Action = ActionAbsent
				return res, nil
			}
			return res, porterr.NotFound(e.Source, err)
		}
		return res, err
	}

	if c.DryRun {
		res.Action = ActionPending
		return res, nil
	}
	if _, err := safeio.CopyIfAbsent(c.Templates, e.Source, c.Target, e.Target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, porterr.NotFound(e.Source, err)
		}
		return res, porterr.WriteFailure(e.Target, err)
	}
	res.Action = ActionCopied
	logger.Debug("Scaffold file copied", logger.String("target", e.Target))
	return res, nil
}
