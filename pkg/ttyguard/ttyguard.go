// Package ttyguard stops lipgloss/termenv from probing the terminal for
// invocations that never start the TUI.
//
// Background and color detection writes OSC/DSR queries to stdout. In a pipe
// or a PTY capture those replies end up in the output of -export, -version
// and -help. Termenv skips the probes when CI is set, so the guard sets CI=1
// before any package touches the renderer. Import it for side effects only.
package ttyguard

import (
	"os"
	"strings"
)

func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !ShouldSuppress(os.Args, os.Getenv("FAQVIEW_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

// ShouldSuppress reports whether args describe a run that prints and exits.
func ShouldSuppress(args []string, testMode bool) bool {
	if testMode {
		return true
	}
	for _, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		switch name {
		case "version", "help", "h", "export":
			return true
		}
	}
	return false
}
