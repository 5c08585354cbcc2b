// Package exit defines the stable exit codes of the runwasm CLI and maps
// pipeline errors onto them.
package exit

import "github.com/cockroachdb/errors"

const (
	OK         = 0
	Usage      = 2  // bad flags or conflicting target selection
	Setup      = 10 // required external tool not found
	Build      = 11 // cargo ran but exited non-zero
	Artifact   = 12 // build succeeded but no artifact was found
	Generation = 13 // wasm-bindgen failed or produced incomplete output
	Assets     = 14 // boot HTML could not be composed or written
	Bind       = 15 // dev server could not bind its port
)

// Coder is implemented by every typed pipeline error.
type Coder interface {
	ExitCode() int
}

// Code returns the exit code carried by err, or 1 for untyped errors.
func Code(err error) int {
	var c Coder
	if errors.As(err, &c) {
		return c.ExitCode()
	}
	return 1
}
