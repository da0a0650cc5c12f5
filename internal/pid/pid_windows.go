//go:build windows

package pid

import "golang.org/x/sys/windows"

// processAlive opens the process and checks its exit code. Signal probing
// does not exist on Windows; a process that can be opened and still reports
// STILL_ACTIVE is running.
func processAlive(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)

	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}

	return code == windows.STILL_ACTIVE
}
