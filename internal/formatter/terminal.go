package formatter

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// UseColor resolves a color mode ("auto", "always" or "never") for output
// written to f. Output to a file is never coloured in auto mode.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return f != nil && IsTerminal(f)
	}
}

// Stdout returns the writer for standard output. Coloured output goes
// through go-colorable so ANSI sequences render on Windows consoles too.
func Stdout(colored bool) io.Writer {
	if colored {
		return colorable.NewColorableStdout()
	}
	return os.Stdout
}
