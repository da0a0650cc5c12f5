//go:build !windows

package pid

import (
	"os"
	"syscall"
)

// processAlive probes the process with signal 0, which checks deliverability
// without delivering anything.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
