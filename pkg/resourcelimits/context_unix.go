//go:build !windows

package resourcelimits

import (
	"golang.org/x/sys/unix"

	"github.com/Xeway/process-scaler/pkg/errors"
)

// selfResourceContext adjusts RLIMIT_AS of the calling process. Children
// spawned afterwards inherit it across fork/exec.
type selfResourceContext struct{}

// SelfContext returns the supervisor's own resource-limit context.
func SelfContext() ResourceContext {
	return selfResourceContext{}
}

func (selfResourceContext) AddressSpaceLimit() (uint64, uint64, error) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_AS, &rlimit); err != nil {
		return 0, 0, errors.NewInternalError("failed to read address-space limit", err)
	}
	return rlimit.Cur, rlimit.Max, nil
}

func (selfResourceContext) SetAddressSpaceSoftLimit(bytes uint64) error {
	var current unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_AS, &current); err != nil {
		return errors.NewInternalError("failed to read address-space limit", err)
	}

	rlimit := unix.Rlimit{
		Cur: bytes,
		Max: current.Max,
	}
	if err := unix.Setrlimit(unix.RLIMIT_AS, &rlimit); err != nil {
		return errors.NewInternalError("failed to set address-space soft limit", err).WithContext("bytes", bytes)
	}
	return nil
}
