package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/corey/califica/internal/app"
	"github.com/corey/califica/internal/apperr"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock checks the server PID file and returns actionable guidance
// when a bbolt open fails due to lock contention. It distinguishes three
// scenarios: server running, stale PID file, and unknown lock holder.
func diagnoseDBLock(root string) string {
	paths := app.NewPaths(root)

	pid, err := readPID(paths.PIDFile)
	if err == nil && processAlive(pid) {
		return fmt.Sprintf("database is locked by the running server (pid %d)\n"+
			"  → stop it first:  kill %d\n"+
			"  → or use its API: califica config", pid, pid)
	}

	if err == nil {
		return fmt.Sprintf("database is locked — server PID file exists but pid %d is gone\n"+
			"  → a previous server may have crashed\n"+
			"  → find the process:  ps aux | grep 'califica'\n"+
			"  → clean up:          rm %s", pid, paths.PIDFile)
	}

	return "database is locked by another process\n" +
		"  → find the process:  ps aux | grep 'califica'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// processAlive probes pid with signal 0.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// formatError renders err for the terminal. Typed errors show their
// message with a hint; anything else is printed as is.
func formatError(err error) string {
	var ae *apperr.AppError
	if !errors.As(err, &ae) {
		return "error: " + err.Error()
	}
	switch ae.Type {
	case apperr.TypeUnauthorized:
		return "✗ " + ae.Message
	case apperr.TypeNotFound:
		return "✗ not found: " + ae.Message
	case apperr.TypeConflict:
		return "✗ conflict: " + ae.Message
	case apperr.TypeValidation:
		return "✗ invalid: " + ae.Message
	case apperr.TypeFormat:
		msg := ae.Message
		if ae.Err != nil {
			msg += ": " + ae.Err.Error()
		}
		return "✗ bad snapshot: " + msg
	default:
		return "error: " + ae.Error()
	}
}
