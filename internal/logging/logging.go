// Package logging emits single-line, tool-prefixed status output.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const prefix = "jacredctl: "

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// Logger writes informational lines to Out and warnings/errors to Err.
type Logger struct {
	Out io.Writer
	Err io.Writer
	// Color enables ANSI colors on Err. Callers normally leave it to New,
	// which keys it off terminal detection.
	Color bool
}

// New returns a Logger bound to stdout/stderr with colors enabled only when
// stderr is an interactive terminal.
func New() *Logger {
	return &Logger{
		Out:   os.Stdout,
		Err:   os.Stderr,
		Color: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Infof logs a status line to Out.
func (l *Logger) Infof(format string, args ...any) {
	_, _ = fmt.Fprintf(l.Out, prefix+format+"\n", args...)
}

// Warnf logs a non-fatal problem to Err.
func (l *Logger) Warnf(format string, args ...any) {
	l.fprintfColored(warnColor, format, args...)
}

// Errorf logs a fatal problem to Err.
func (l *Logger) Errorf(format string, args ...any) {
	l.fprintfColored(errorColor, format, args...)
}

func (l *Logger) fprintfColored(c *color.Color, format string, args ...any) {
	if l.Color {
		_, _ = c.Fprintf(l.Err, prefix+format+"\n", args...)
		return
	}
	_, _ = fmt.Fprintf(l.Err, prefix+format+"\n", args...)
}
