package porting

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/tklport/pkg/adapter"
	"github.com/fulmenhq/tklport/pkg/ascii"
	"github.com/fulmenhq/tklport/pkg/scaffold"
	"github.com/fulmenhq/tklport/pkg/snapshot"
)

// Status is the outcome of one platform directory.
type Status string

const (
	StatusOK       Status = "ok"
	StatusFailed   Status = "failed"
	StatusNotFound Status = "not_found"
	StatusCanceled Status = "canceled"
)

// Report is the result of a run over one or more platform directories.
type Report struct {
	RunID      string          `json:"run_id" yaml:"run_id" toml:"run_id"`
	StartedAt  time.Time       `json:"started_at" yaml:"started_at" toml:"started_at"`
	DurationMS int64           `json:"duration_ms" yaml:"duration_ms" toml:"duration_ms"`
	DryRun     bool            `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Totals     map[string]int  `json:"totals" yaml:"totals" toml:"totals"`
	Targets    []*TargetReport `json:"targets" yaml:"targets" toml:"targets"`
}

// TargetReport is the result for one platform directory.
type TargetReport struct {
	Dir        string            `json:"dir" yaml:"dir" toml:"dir"`
	Platform   string            `json:"platform" yaml:"platform" toml:"platform"`
	Status     Status            `json:"status" yaml:"status" toml:"status"`
	HostedOS   bool              `json:"hosted_os" yaml:"hosted_os" toml:"hosted_os"`
	Abilities  []string          `json:"abilities,omitempty" yaml:"abilities,omitempty" toml:"abilities,omitempty"`
	DurationMS int64             `json:"duration_ms" yaml:"duration_ms" toml:"duration_ms"`
	Scaffold   []scaffold.Result `json:"scaffold,omitempty" yaml:"scaffold,omitempty" toml:"scaffold,omitempty"`
	Groups     []GroupSummary    `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
	Files      []adapter.Result  `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// GroupSummary counts the functions of one ability group.
type GroupSummary struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Dir     string `json:"dir" yaml:"dir" toml:"dir"`
	Files   int    `json:"files" yaml:"files" toml:"files"`
	Added   int    `json:"added" yaml:"added" toml:"added"`
	Kept    int    `json:"kept" yaml:"kept" toml:"kept"`
	Retired int    `json:"retired" yaml:"retired" toml:"retired"`
}

func newReport(dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		DryRun:    dryRun,
	}
}

func (r *Report) finish() {
	r.DurationMS = time.Since(r.StartedAt).Milliseconds()
	r.Totals = map[string]int{}
	for _, t := range r.Targets {
		if t == nil {
			continue
		}
		for _, f := range t.Files {
			r.Totals[string(f.Action)]++
			if f.Unchanged {
				r.Totals["unchanged"]++
			}
		}
	}
}

// Failed reports whether any platform or file failed.
func (r *Report) Failed() bool {
	for _, t := range r.Targets {
		if t != nil && t.Status != StatusOK {
			return true
		}
	}
	return false
}

func (t *TargetReport) fail(status Status, err error) {
	t.Status = status
	t.Error = err.Error()
}

// settle records errs on the report and returns them joined.
func (t *TargetReport) settle(errs []error) error {
	err := errors.Join(errs...)
	if err != nil {
		if t.Status == StatusOK {
			t.Status = StatusFailed
		}
		t.Error = err.Error()
	}
	return err
}

func summarize(g snapshot.Group) GroupSummary {
	s := GroupSummary{Name: g.Name, Dir: g.Dir, Files: len(g.Files)}
	for _, f := range g.Files {
		added, kept, retired := f.Counts()
		s.Added += added
		s.Kept += kept
		s.Retired += retired
	}
	return s
}

// Format is a report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format string; "" means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid report format %q (valid: text, json, yaml, toml)", s)
	}
}

// Encode writes the report to w.
func (r *Report) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(r)
	case FormatText, "":
		_, err := io.WriteString(w, r.Text())
		return err
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// Text renders the human readable report.
func (r *Report) Text() string {
	var sb strings.Builder

	summary := []string{
		"tklport run " + r.RunID,
		fmt.Sprintf("platforms: %d  duration: %dms", len(r.Targets), r.DurationMS),
	}
	if r.DryRun {
		summary = append(summary, "dry run: nothing was written")
	}
	if len(r.Totals) > 0 {
		keys := make([]string, 0, len(r.Totals))
		for k := range r.Totals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%d", k, r.Totals[k]))
		}
		summary = append(summary, strings.Join(parts, " "))
	}
	sb.WriteString(ascii.Box(summary))

	for _, t := range r.Targets {
		if t == nil {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(t.Text())
	}
	return sb.String()
}

// Text renders one platform section.
func (t *TargetReport) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]  %s\n", t.Platform, t.Status, t.Dir)
	if t.Error != "" {
		fmt.Fprintf(&sb, "  error: %s\n", t.Error)
	}

	if len(t.Scaffold) > 0 {
		rows := [][]string{{"SCAFFOLD", "ACTION"}}
		for _, s := range t.Scaffold {
			rows = append(rows, []string{s.Target, string(s.Action)})
		}
		for _, line := range ascii.Table(rows) {
			sb.WriteString("  " + line + "\n")
		}
	}

	if len(t.Files) > 0 {
		rows := [][]string{{"FILE", "ACTION", "NEW", "KEPT", "RETIRED", ""}}
		for _, f := range t.Files {
			note := f.Error
			if f.Unchanged {
				note = "unchanged"
			}
			rows = append(rows, []string{
				f.File, string(f.Action),
				fmt.Sprint(f.Added), fmt.Sprint(f.Kept), fmt.Sprint(f.Retired),
				note,
			})
		}
		for _, line := range ascii.Table(rows) {
			sb.WriteString("  " + line + "\n")
		}
		for _, f := range t.Files {
			if f.Diff != "" {
				sb.WriteString(f.Diff)
			}
		}
	}

	if len(t.Groups) > 0 {
		rows := [][]string{{"GROUP", "FILES", "NEW", "KEPT", "RETIRED"}}
		for _, g := range t.Groups {
			rows = append(rows, []string{g.Name, fmt.Sprint(g.Files), fmt.Sprint(g.Added), fmt.Sprint(g.Kept), fmt.Sprint(g.Retired)})
		}
		for _, line := range ascii.Table(rows) {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}
