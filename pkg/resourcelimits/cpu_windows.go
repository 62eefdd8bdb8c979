//go:build windows

package resourcelimits

import (
	"golang.org/x/sys/windows"

	"github.com/Xeway/process-scaler/pkg/errors"
)

var (
	kernel32                   = windows.NewLazySystemDLL("kernel32.dll")
	procSetProcessAffinityMask = kernel32.NewProc("SetProcessAffinityMask")
)

// applyCPUCeilingImpl restricts pid to the first cores logical CPUs via the
// process affinity mask and drops it to the below-normal priority class.
func applyCPUCeilingImpl(pid int, cores int) error {
	handle, err := windows.OpenProcess(
		windows.PROCESS_SET_INFORMATION|windows.PROCESS_QUERY_LIMITED_INFORMATION,
		false,
		uint32(pid),
	)
	if err != nil {
		return errors.NewProcessNotFoundError("failed to open target process", err).WithContext("pid", pid)
	}
	defer windows.CloseHandle(handle)

	// Affinity masks cover at most 64 logical CPUs per processor group
	if cores > 64 {
		cores = 64
	}
	var mask uintptr
	if cores == 64 {
		mask = ^uintptr(0)
	} else {
		mask = uintptr(1)<<uint(cores) - 1
	}

	ret, _, callErr := procSetProcessAffinityMask.Call(uintptr(handle), mask)
	if ret == 0 {
		return errors.NewProcessError("SetProcessAffinityMask failed", callErr).WithContext("pid", pid)
	}

	if err := windows.SetPriorityClass(handle, windows.BELOW_NORMAL_PRIORITY_CLASS); err != nil {
		return errors.NewProcessError("failed to lower priority class", err).WithContext("pid", pid)
	}

	return nil
}
