package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetColorForcing overrides terminal detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// SetOutput redirects everything the package prints. Colors are only
// emitted to a terminal unless forced.
func SetOutput(out, errOut io.Writer) {
	stdout, stderr = out, errOut
}

func Stdout() io.Writer { return stdout }
func Stderr() io.Writer { return stderr }

// isTTY only looks at stdout; a redirected writer is never a terminal.
func isTTY() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when output is a terminal (or color is forced).
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

// Dim renders s faint.
func Dim(s string) string { return C(dim, s) }

// OK and Fail print a status line to stdout and stderr respectively.
func OK(msg string)   { fmt.Fprintln(stdout, C(current.Success, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(stderr, C(current.Error, symCross+" "+msg)) }

// Hint prints a muted follow-up line under a failure.
func Hint(msg string) { fmt.Fprintln(stderr, C(current.Muted, "Hint: "+msg)) }
