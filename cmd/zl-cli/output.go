package main

import (
	goerrors "errors"
	"fmt"
	"io"
	"time"

	"zl/internal/errors"
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = goerrors.New("compilation failed")

func errorsReported(err error) bool {
	return goerrors.Is(err, errReported)
}

func printDiagnostics(out io.Writer, path, source string, diagnostics []errors.CompilerError) {
	if len(diagnostics) == 0 {
		return
	}
	reporter := errors.NewErrorReporter(path, source)
	fmt.Fprint(out, reporter.FormatAll(diagnostics))
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
