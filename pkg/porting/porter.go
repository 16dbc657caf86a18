// Package porting drives the regeneration of one or more platform directories:
// ability extraction, scaffolding, interface discovery, merging and
// generation, collected into a Report.
package porting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/tklport/pkg/ability"
	"github.com/fulmenhq/tklport/pkg/adapter"
	"github.com/fulmenhq/tklport/pkg/logger"
	"github.com/fulmenhq/tklport/pkg/merge"
	"github.com/fulmenhq/tklport/pkg/porterr"
	"github.com/fulmenhq/tklport/pkg/safeio"
	"github.com/fulmenhq/tklport/pkg/scaffold"
	"github.com/fulmenhq/tklport/pkg/snapshot"
)

// Opener returns a filesystem rooted at dir.
type Opener func(dir string) (billy.Filesystem, error)

// OSOpener roots an OS filesystem at dir.
func OSOpener(dir string) (billy.Filesystem, error) {
	return osfs.New(dir), nil
}

// Options configures a Porter.
type Options struct {
	// TemplateRoot overrides DefaultTemplateRoot. Relative paths are
	// resolved against each platform directory.
	TemplateRoot string

	// Mode selects the per-file template variant.
	Mode TemplateMode

	// Exclusions skip interface directories; nil means DefaultExclusions.
	Exclusions []Exclusion

	// Gates overrides adapter.DefaultGates when non-nil.
	Gates []adapter.Gate

	// Jobs bounds the number of platform directories processed at once.
	Jobs int

	// HeaderCacheSize bounds the parsed header cache.
	HeaderCacheSize int

	// ScaffoldOnly stops after the scaffold step.
	ScaffoldOnly bool

	DryRun bool
	Diff   bool

	// Open overrides OSOpener.
	Open Opener
}

// Porter regenerates platform directories.
type Porter struct {
	opts    Options
	headers *snapshot.HeaderLoader
}

// New validates opts and returns a Porter.
func New(opts Options) (*Porter, error) {
	if opts.Mode == "" {
		opts.Mode = TemplateAuto
	}
	if _, err := ParseTemplateMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	if opts.Exclusions == nil {
		opts.Exclusions = DefaultExclusions
	}
	for _, e := range opts.Exclusions {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}
	if opts.Open == nil {
		opts.Open = OSOpener
	}
	headers, err := snapshot.NewHeaderLoader(opts.HeaderCacheSize)
	if err != nil {
		return nil, err
	}
	return &Porter{opts: opts, headers: headers}, nil
}

// RunAll processes every platform directory, at most Jobs at a time. A
// failing directory does not stop the others. Duplicate directories are
// processed once. The returned error joins every failure.
func (p *Porter) RunAll(ctx context.Context, dirs []string) (*Report, error) {
	rep := newReport(p.opts.DryRun)
	dirs = uniqueDirs(dirs)
	rep.Targets = make([]*TargetReport, len(dirs))
	errs := make([]error, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Jobs)
	for i, dir := range dirs {
		g.Go(func() error {
			rep.Targets[i], errs[i] = p.Run(gctx, dir)
			return nil
		})
	}
	_ = g.Wait()
	rep.finish()
	logger.Debug("Run finished",
		logger.String("run_id", rep.RunID),
		logger.Int("targets", len(rep.Targets)),
		logger.Duration("elapsed", time.Duration(rep.DurationMS)*time.Millisecond))

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, errors.Join(errs...)
}

// Run processes one platform directory. The report is always returned; the
// error joins the failures of the directory.
func (p *Porter) Run(ctx context.Context, dir string) (*TargetReport, error) {
	started := time.Now()
	rep := &TargetReport{Dir: dir, Platform: filepath.Base(dir), Status: StatusOK}
	defer func() { rep.DurationMS = time.Since(started).Milliseconds() }()

	if err := ctx.Err(); err != nil {
		rep.fail(StatusCanceled, err)
		return rep, err
	}

	target, err := p.opts.Open(dir)
	if err != nil {
		err = porterr.NotFound(dir, err)
		rep.fail(StatusNotFound, err)
		return rep, err
	}
	abilities, err := ability.LoadFS(target, ability.ConfigFile)
	if err != nil {
		status := StatusFailed
		if errors.Is(err, porterr.ErrNotFound) {
			status = StatusNotFound
			err = porterr.NotFound(filepath.Join(dir, ability.ConfigFile), errors.Unwrap(err))
		}
		logger.Warn("Platform not found", logger.String("dir", dir), logger.Err(err))
		rep.fail(status, err)
		return rep, err
	}
	rep.HostedOS = abilities.HostedOS()
	rep.Abilities = abilities.Keys()
	logger.Info("Found platform",
		logger.String("platform", rep.Platform),
		logger.Bool("hosted_os", rep.HostedOS),
		logger.Int("abilities", abilities.Len()))

	var errs []error
	root, err := p.templateRoot(dir)
	if err != nil {
		logger.Warn("Template root unavailable", logger.String("dir", dir), logger.Err(err))
	}

	copier := &scaffold.Copier{Target: target, DryRun: p.opts.DryRun}
	if root != nil {
		copier.Templates = root
	}
	rep.Scaffold, err = copier.Copy(scaffold.Entries(abilities))
	if err != nil {
		errs = append(errs, err)
	}
	if p.opts.ScaffoldOnly {
		return rep, rep.settle(errs)
	}

	gen, err := adapter.NewGenerator(adapter.Config{
		Target:    target,
		Templates: p.variantFS(root, abilities),
		Gates:     p.opts.Gates,
		DryRun:    p.opts.DryRun,
		Diff:      p.opts.Diff,
	})
	if err != nil {
		errs = append(errs, err)
		return rep, rep.settle(errs)
	}

	groups, err := Discover(target, adapter.IncludeDir, p.opts.Exclusions)
	switch {
	case errors.Is(err, porterr.ErrNotFound):
		logger.Warn("No interface headers yet", logger.String("dir", path.Join(dir, adapter.IncludeDir)))
		if !p.opts.DryRun {
			for _, d := range []string{adapter.IncludeDir, adapter.SrcDir} {
				if mkErr := target.MkdirAll(d, 0o755); mkErr != nil {
					errs = append(errs, porterr.WriteFailure(d, mkErr))
				}
			}
		}
	case err != nil:
		errs = append(errs, err)
		return rep, rep.settle(errs)
	}

	sources := map[string]string{}
	for gi := range groups {
		group := &groups[gi]
		logger.Debug("Processing ability group", logger.String("group", group.Name), logger.Int("headers", len(group.Headers)))
		for _, header := range group.Headers {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				rep.Status = StatusCanceled
				return rep, rep.settle(errs)
			}
			res, merged, err := p.file(target, gen, abilities, header, sources)
			if err != nil {
				errs = append(errs, err)
				logger.Error("Adapter generation failed", logger.String("header", header), logger.Err(err))
			}
			if merged != nil {
				group.Files = append(group.Files, merged)
			}
			rep.Files = append(rep.Files, res)
		}
		rep.Groups = append(rep.Groups, summarize(*group))
	}
	return rep, rep.settle(errs)
}

func (p *Porter) file(target billy.Filesystem, gen *adapter.Generator, abilities ability.Map, header string, sources map[string]string) (adapter.Result, *snapshot.File, error) {
	name, err := snapshot.SourceName(path.Base(header))
	res := adapter.Result{File: name, Path: path.Join(adapter.SrcDir, name), Action: adapter.ActionFailed}
	fail := func(err error) (adapter.Result, *snapshot.File, error) {
		res.Error = err.Error()
		return res, nil, err
	}
	if err != nil {
		return fail(err)
	}
	if other, dup := sources[name]; dup {
		return fail(porterr.StructuralMismatch(header, fmt.Sprintf("adapter %s already generated from %s", name, other)))
	}
	sources[name] = header

	current, err := p.headers.Load(target, path.Join(adapter.IncludeDir, header))
	if err != nil {
		return fail(err)
	}
	legacy, err := snapshot.LoadSource(target, res.Path)
	if err != nil {
		return fail(err)
	}
	merged, err := merge.Merge(current, legacy)
	if err != nil {
		return fail(err)
	}
	res, err = gen.Generate(merged, abilities)
	return res, merged, err
}

// templateRoot opens the template root of dir, nil when it does not exist.
func (p *Porter) templateRoot(dir string) (billy.Filesystem, error) {
	root := p.opts.TemplateRoot
	if root == "" {
		root = DefaultTemplateRoot
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(dir, root)
	}
	fs, err := p.opts.Open(filepath.Clean(root))
	if err != nil {
		return nil, err
	}
	ok, err := safeio.Exists(fs, ".")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, porterr.NotFound(root, os.ErrNotExist)
	}
	return fs, nil
}

func (p *Porter) variantFS(root billy.Filesystem, abilities ability.Map) billy.Basic {
	variant := TemplateVariant(p.opts.Mode, abilities)
	if root == nil || variant == "" {
		return nil
	}
	fs, err := root.Chroot(variant)
	if err != nil {
		logger.Warn("Template variant unavailable", logger.String("variant", variant), logger.Err(err))
		return nil
	}
	return fs
}

func uniqueDirs(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		key := filepath.Clean(d)
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, filepath.Clean(d))
	}
	return out
}
