package buildinfo

import "runtime/debug"

// Set at build time via -ldflags "-X github.com/fulmenhq/tklport/pkg/buildinfo.BinaryVersion=...".
var (
	BinaryVersion = "dev"
	GitCommit     = "unknown"
	BuildDate     = "unknown"
)

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

// Version returns the binary version, falling back to the module version
// for `go install` builds that carry no ldflags.
func Version() string {
	if BinaryVersion != "dev" {
		return BinaryVersion
	}
	if v := ModuleVersion(); v != "" && v != "(devel)" {
		return v
	}
	return BinaryVersion
}

// ShortCommit returns the first eight characters of GitCommit.
func ShortCommit() string {
	if len(GitCommit) > 8 {
		return GitCommit[:8]
	}
	return GitCommit
}
