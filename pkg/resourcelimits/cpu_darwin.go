//go:build darwin

package resourcelimits

import (
	"github.com/Xeway/process-scaler/pkg/errors"
)

// macOS exposes no public CPU affinity API (thread affinity tags are hints,
// not a pinning mechanism), so the CPU actuator is inert on darwin.
func applyCPUCeilingImpl(pid int, cores int) error {
	return errors.NewUnsupportedPlatformError("CPU affinity control is not available on macOS", nil).WithContext("pid", pid)
}
