// Package bindgen invokes the external wasm-bindgen CLI to turn a compiled
// wasm artifact into a browser-loadable glue module plus companion binary.
//
// The installed wasm-bindgen version must match the wasm-bindgen library
// version the artifact was compiled against. That consistency cannot be
// checked from here, a mismatch surfaces as wasm-bindgen's own error output.
package bindgen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/runwasm-dev/runwasm/internal/exit"
)

// Output modes understood by the generator. They change how the glue module
// must be loaded by the boot HTML.
const (
	TargetWeb       = "web"        // ES module, loaded via import
	TargetNoModules = "no-modules" // classic script exposing a global
)

// SetupError means wasm-bindgen is not installed. It carries the install
// step because the tool is an external prerequisite runwasm does not manage.
type SetupError struct{}

func (e *SetupError) Error() string {
	return "wasm-bindgen was not found on PATH. Install it with `cargo install wasm-bindgen-cli`; " +
		"its version must match the wasm-bindgen crate version your project depends on."
}

func (e *SetupError) ExitCode() int { return exit.Setup }

// GenerationError covers both a non-zero wasm-bindgen exit and a run that
// terminated cleanly but left the bundle incomplete.
type GenerationError struct {
	Command string // invocation that failed, empty for missing outputs
	Missing string // expected output that is absent or empty
}

func (e *GenerationError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("wasm-bindgen completed but %s is missing or empty", e.Missing)
	}
	return fmt.Sprintf("`%s` failed; see the wasm-bindgen output above", e.Command)
}

func (e *GenerationError) ExitCode() int { return exit.Generation }

// GlueName and BinaryName are the deterministic output names wasm-bindgen
// produces for an artifact base name. The boot HTML references exactly
// these.
func GlueName(name string) string   { return name + ".js" }
func BinaryName(name string) string { return name + "_bg.wasm" }

// Find locates the wasm-bindgen executable on PATH.
func Find() (string, error) {
	path, err := exec.LookPath("wasm-bindgen")
	if err != nil {
		return "", &SetupError{}
	}
	return path, nil
}

// Generator runs wasm-bindgen with a fixed output mode.
type Generator struct {
	Exe    string
	Target string // TargetWeb or TargetNoModules
}

func (g *Generator) args(artifact, outDir string) []string {
	return []string{
		artifact,
		"--out-dir", outDir,
		"--target", g.Target,
		"--no-typescript",
	}
}

// Generate post-processes the artifact into outDir and verifies that the
// glue module and binary asset exist and are non-empty. An incomplete bundle
// is terminal, never served.
func (g *Generator) Generate(ctx context.Context, artifact, name, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	args := g.args(artifact, outDir)
	cmd := exec.CommandContext(ctx, g.Exe, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &GenerationError{Command: g.Exe + " " + strings.Join(args, " ")}
	}

	return VerifyOutputs(outDir, name)
}

// VerifyOutputs checks the generation postcondition: both expected files
// present and non-empty.
func VerifyOutputs(outDir, name string) error {
	for _, file := range []string{GlueName(name), BinaryName(name)} {
		path := filepath.Join(outDir, file)
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			return &GenerationError{Missing: path}
		}
	}
	return nil
}
