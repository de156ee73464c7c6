package cmd

import "os"

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// colorWanted decides color output: --no-color and NO_COLOR win, otherwise
// color follows whether stdout is a terminal.
func colorWanted(noColorFlag bool) bool {
	if noColorFlag || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(os.Stdout)
}

// promptWanted reports whether a prompt should be printed before reading
// stdin. Piped input gets no prompt.
func promptWanted() bool {
	return isTerminal(os.Stdin)
}
