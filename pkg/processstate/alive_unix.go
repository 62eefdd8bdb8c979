//go:build !windows

package processstate

import (
	"os"
	"syscall"
)

// Alive reports whether pid refers to a live process.
//
// On Unix, os.FindProcess always succeeds regardless of whether the process
// exists, so liveness is probed with the null signal. EPERM means the process
// exists but belongs to another user, which still counts as alive.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}

	errno, ok := err.(syscall.Errno)
	if ok && errno == syscall.EPERM {
		return true
	}
	return false
}
