// Package pid guards against a second instance fighting over the fan
// control transport.
package pid

import (
	"os"
	"path/filepath"
	"strconv"

	"codeberg.org/mutker/handheldctl/internal/errors"
)

const (
	pidFile = "handheldctl.pid"
)

func defaultPath() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write writes the current process ID to the PID file. It fails with
// ErrAlreadyRunning when the file names a live process.
func Write() error {
	return writeAt(defaultPath())
}

func writeAt(path string) error {
	errFactory := errors.New()
	pid := os.Getpid()

	if _, err := os.Stat(path); err == nil {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		oldPid, err := strconv.Atoi(string(bytes))
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		// A dead process means the file is stale and gets overwritten.
		if processAlive(oldPid) {
			return errFactory.New(errors.ErrAlreadyRunning)
		}
	}

	err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o600)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove() error {
	return removeAt(defaultPath())
}

func removeAt(path string) error {
	errFactory := errors.New()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}
