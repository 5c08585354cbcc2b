package cargo

import (
	"fmt"
)

// TargetTriple is the portable bytecode platform every build is forced to.
const TargetTriple = "wasm32-unknown-unknown"

// BuildTarget selects what to compile. Exactly one of Package, Bin or
// Example must be set.
type BuildTarget struct {
	Package string
	Bin     string
	Example string

	// Profile is a cargo profile name. Empty means the default dev profile.
	Profile string

	// ExtraArgs are forwarded to `cargo build` verbatim (feature flags etc).
	ExtraArgs []string
}

// reserved flags: runwasm owns the target triple and the target directory,
// letting callers override them would break artifact location.
var reservedFlags = []string{"--target", "--target-dir"}

func (t *BuildTarget) Validate() error {
	selected := 0
	for _, s := range []string{t.Package, t.Bin, t.Example} {
		if s != "" {
			selected++
		}
	}
	if selected == 0 {
		return &UsageError{Msg: "need one of `--package NAME`, `--bin NAME` or `--example NAME`"}
	}
	if selected > 1 {
		return &UsageError{Msg: "`--package`, `--bin` and `--example` are mutually exclusive"}
	}
	for _, arg := range t.ExtraArgs {
		for _, banned := range reservedFlags {
			if arg == banned {
				return &UsageError{Msg: fmt.Sprintf("runwasm does not support the %s option", banned)}
			}
		}
	}
	return nil
}

// Name returns the artifact base name for the selection.
func (t *BuildTarget) Name() string {
	switch {
	case t.Example != "":
		return t.Example
	case t.Bin != "":
		return t.Bin
	default:
		return t.Package
	}
}

// ProfileDir returns the target subdirectory cargo uses for the profile.
// The dev profile (cargo's default) writes into "debug".
func (t *BuildTarget) ProfileDir() string {
	switch t.Profile {
	case "", "dev":
		return "debug"
	default:
		return t.Profile
	}
}

// Args builds the full `cargo build` argument list for this target, placing
// the artifact under wasmTargetDir.
func (t *BuildTarget) Args(wasmTargetDir string) []string {
	args := []string{
		"build",
		"--target", TargetTriple,
		"--target-dir", wasmTargetDir,
	}
	if t.Package != "" {
		args = append(args, "--package", t.Package)
	}
	if t.Bin != "" {
		args = append(args, "--bin", t.Bin)
	}
	if t.Example != "" {
		args = append(args, "--example", t.Example)
	}
	if t.Profile != "" {
		args = append(args, "--profile", t.Profile)
	}
	return append(args, t.ExtraArgs...)
}
