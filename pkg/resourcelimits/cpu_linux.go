//go:build linux

package resourcelimits

import (
	"golang.org/x/sys/unix"

	"github.com/Xeway/process-scaler/pkg/errors"
)

// One notch below normal scheduling priority, so that under contention
// other processes receive proportionally more scheduler time.
const belowNormalNiceness = 10

// applyCPUCeilingImpl pins pid to the first cores logical CPUs and demotes
// its scheduling priority.
func applyCPUCeilingImpl(pid int, cores int) error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < cores; i++ {
		set.Set(i)
	}

	if err := unix.SchedSetaffinity(pid, &set); err != nil {
		if err == unix.ESRCH {
			return errors.NewProcessNotFoundError("target process exited before affinity could be set", err).WithContext("pid", pid)
		}
		return errors.NewProcessError("failed to set CPU affinity", err).WithContext("pid", pid)
	}

	if err := unix.Setpriority(unix.PRIO_PROCESS, pid, belowNormalNiceness); err != nil {
		if err == unix.ESRCH {
			return errors.NewProcessNotFoundError("target process exited before priority could be set", err).WithContext("pid", pid)
		}
		return errors.NewProcessError("failed to lower scheduling priority", err).WithContext("pid", pid)
	}

	return nil
}
