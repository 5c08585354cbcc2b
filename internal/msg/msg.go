// Package msg prints colored diagnostics for the runwasm CLI. Child process
// output (cargo, wasm-bindgen) is never routed through here; those streams
// are inherited so their own formatting survives untouched.
package msg

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func emit(tag string, format string, a ...any) {
	fmt.Fprint(os.Stderr, tag, ": ")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprint(os.Stderr, "\n")
}

func Error(format string, a ...any) {
	emit(color.HiRedString("error"), format, a...)
}

func Warn(format string, a ...any) {
	emit(color.YellowString("warn"), format, a...)
}

func Info(format string, a ...any) {
	emit(color.HiGreenString("info"), format, a...)
}

// Fatal prints an error and exits with the given code. Exit codes are
// documented in the README and must stay stable.
func Fatal(code int, format string, a ...any) {
	emit(color.RedString("fatal"), format, a...)
	os.Exit(code)
}
