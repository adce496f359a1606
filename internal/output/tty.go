package output

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is an interactive terminal. Non-TTY
// invocations skip spinners and keep output machine-friendly.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
