// Package cmdutil holds small command-line logging helpers shared by
// cmd/primerscan.
package cmdutil

import (
	"fmt"
	"io"
)

// Warnf writes a "WARN: " prefixed line to dst unless quiet is set. Used to
// surface spec §7's non-fatal capacity warnings (neighborhood/match cap
// saturation) as they happen.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}
