package cargo

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// Executable resolves the cargo binary: the CARGO environment variable if
// set (cargo exports it when running subcommands), otherwise PATH lookup.
func Executable() (string, error) {
	if v := os.Getenv("CARGO"); v != "" {
		return v, nil
	}
	path, err := exec.LookPath("cargo")
	if err != nil {
		return "", &SetupError{
			Tool: "cargo",
			Hint: "Install the Rust toolchain from https://rustup.rs and make sure cargo is on PATH.",
		}
	}
	return path, nil
}

// BuildResult is what a successful compile hands to the binding generator.
type BuildResult struct {
	// Name is the artifact base name (crate, bin or example name).
	Name string
	// Artifact is the absolute path of the wasm file cargo produced.
	Artifact string
}

// Invoker runs cargo builds against a fixed workspace layout.
type Invoker struct {
	Cargo string
	Dirs  Directories
}

// Build compiles the target for the wasm triple. Stdout and stderr are
// inherited so the developer sees cargo's own diagnostics; nothing is
// captured or rewrapped. The build has no timeout, cancelling ctx kills the
// child process.
func (inv *Invoker) Build(ctx context.Context, t *BuildTarget) (*BuildResult, error) {
	args := t.Args(inv.Dirs.WasmTargetDir())

	cmd := exec.CommandContext(ctx, inv.Cargo, args...)
	cmd.Dir = inv.Dirs.WorkspaceRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, &BuildError{
			Command: inv.Cargo + " " + strings.Join(args, " "),
			Dir:     inv.Dirs.WorkspaceRoot,
		}
	}

	artifact, err := locateArtifact(inv.Dirs.WasmTargetDir(), t)
	if err != nil {
		return nil, err
	}
	return &BuildResult{Name: t.Name(), Artifact: artifact}, nil
}
