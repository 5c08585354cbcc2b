package cargo

import (
	"fmt"
	"strings"

	"github.com/runwasm-dev/runwasm/internal/exit"
)

// UsageError means the command line itself is wrong: no target selection,
// conflicting selections, or a reserved flag in the passthrough args.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func (e *UsageError) ExitCode() int { return exit.Usage }

// SetupError means the cargo executable itself could not be found. It is
// distinct from a build failure: there is nothing to compile-diagnose, the
// toolchain simply isn't installed.
type SetupError struct {
	Tool string
	Hint string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s was not found on PATH. %s", e.Tool, e.Hint)
}

func (e *SetupError) ExitCode() int { return exit.Setup }

// BuildError means cargo ran and exited non-zero. Cargo has already written
// its diagnostics to the inherited stderr, so the message stays short and
// only adds the invocation context.
type BuildError struct {
	Command string
	Dir     string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("`%s` failed (run in %s); see the cargo output above", e.Command, e.Dir)
}

func (e *BuildError) ExitCode() int { return exit.Build }

// ArtifactNotFoundError means cargo exited zero but none of the paths the
// locator checked contain the expected wasm artifact. A typical cause is
// `--package NAME` on a package that has no binary target.
type ArtifactNotFoundError struct {
	Target  string
	Checked []string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("no wasm artifact for %q after a successful build, checked:\n  %s\nmaybe the selected package has no binary target?",
		e.Target, strings.Join(e.Checked, "\n  "))
}

func (e *ArtifactNotFoundError) ExitCode() int { return exit.Artifact }
